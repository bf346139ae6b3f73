package gemini

/*
	GEMINI API - generateContent TYPES
*/

// generateContentRequest represents the request to Gemini's generateContent endpoint.
type generateContentRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

// content represents a content block with role and parts.
type content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"
	Parts []part `json:"parts"`
}

// part represents a content part (text or inline binary data).
type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

// inlineData represents inline binary data (e.g., base64-encoded images).
type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// tool represents a tool definition for Gemini.
type tool struct {
	GoogleSearch *googleSearchTool `json:"googleSearch,omitempty"`
}

// googleSearchTool represents the Google Search grounding tool.
type googleSearchTool struct{}

// generateContentResponse represents the response from Gemini's generateContent endpoint.
type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates,omitempty"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

// candidate represents a response candidate.
type candidate struct {
	Content      *content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// promptFeedback represents feedback about the prompt, including block reasons.
type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

/*
	IMAGEN API - predict TYPES
*/

// predictRequest represents the request to Imagen's predict endpoint.
type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

// predictInstance carries one generation prompt.
type predictInstance struct {
	Prompt string `json:"prompt"`
}

// predictParameters configures an image generation call.
type predictParameters struct {
	SampleCount int `json:"sampleCount"`
}

// predictResponse represents the response from Imagen's predict endpoint.
type predictResponse struct {
	Predictions []prediction `json:"predictions,omitempty"`
}

// prediction is one generated image.
type prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType,omitempty"`
}

package genai

import "context"

// Part is one element of a multimodal text-generation request: either plain
// text or inline binary data. Exactly one of Text and Inline is set.
type Part struct {
	Text   string
	Inline *InlineData
}

// InlineData carries base64-encoded binary content with its MIME type.
type InlineData struct {
	MimeType string
	Data     string
}

// TextPart creates a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart creates an inline binary part.
func InlinePart(mimeType, base64Data string) Part {
	return Part{Inline: &InlineData{MimeType: mimeType, Data: base64Data}}
}

// Provider is implemented by generative service clients. Both calls are
// fallible remote operations with no client-side retry; failures should be
// returned as a *ServiceError so callers can present an actionable message.
type Provider interface {
	// GenerateText sends the ordered parts to the given text model and
	// returns the generated text. When useWebSearch is true the provider
	// enables its web-search grounding capability for the call.
	GenerateText(ctx context.Context, model string, parts []Part, useWebSearch bool) (string, error)

	// GenerateImage asks the given image model to render prompt and
	// returns the result as an inline image value
	// ("data:<mime>;base64,<payload>").
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
}

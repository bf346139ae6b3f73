// Package gemini implements the genai.Provider boundary against Google's
// Generative Language REST API: generateContent for text models and the
// Imagen predict endpoint for image models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/flowmesh/flowmesh/internal/utils"
	"github.com/flowmesh/flowmesh/observability"
	"github.com/flowmesh/flowmesh/providers/genai"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTextModel is used when a node does not name a text model.
	DefaultTextModel = "gemini-2.5-flash"

	// DefaultImageModel is used when a node does not name an image model.
	DefaultImageModel = "imagen-4.0-generate-001"

	generatedImageMimeType = "image/png"
)

// Provider implements genai.Provider for Google's Gemini and Imagen APIs.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ genai.Provider = (*Provider)(nil)

// New creates a new Gemini provider instance with default values from environment.
// Environment variables:
//   - GEMINI_API_KEY: API key for authentication
//   - GEMINI_API_BASE_URL: Base URL for API (optional, defaults to Google's API)
func New() *Provider {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Provider{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *Provider) WithAPIKey(apiKey string) *Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	p.baseURL = baseURL
	return p
}

// WithHTTPClient sets a custom HTTP client.
func (p *Provider) WithHTTPClient(httpClient *http.Client) *Provider {
	p.client = httpClient
	return p
}

// GenerateText implements genai.Provider. It sends the ordered parts to the
// generateContent endpoint and returns the joined text of the first
// candidate. Provider failures are translated into *genai.ServiceError.
func (p *Provider) GenerateText(ctx context.Context, model string, parts []genai.Part, useWebSearch bool) (string, error) {
	if model == "" {
		model = DefaultTextModel
	}
	if err := p.checkAPIKey(); err != nil {
		return "", err
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "Gemini text generation request",
			observability.String(observability.AttrGenProvider, "gemini"),
			observability.String(observability.AttrGenModel, model),
			observability.Int("gen.parts", len(parts)),
			observability.Bool("gen.web_search", useWebSearch),
		)
	}

	request := generateContentRequest{
		Contents: []content{{Parts: partsToGemini(parts)}},
	}
	if useWebSearch {
		request.Tools = []tool{{GoogleSearch: &googleSearchTool{}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)

	_, response, err := utils.DoPostSync[generateContentResponse](
		ctx, p.client, url, request,
		utils.HeaderOption{Key: "x-goog-api-key", Value: p.apiKey},
	)
	if err != nil {
		return "", translateError(err)
	}

	return textFromResponse(response)
}

// GenerateImage implements genai.Provider. It calls the Imagen predict
// endpoint with a single-sample request and wraps the returned bytes into
// an inline image value.
func (p *Provider) GenerateImage(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = DefaultImageModel
	}
	if err := p.checkAPIKey(); err != nil {
		return "", err
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Debug(ctx, "Gemini image generation request",
			observability.String(observability.AttrGenProvider, "gemini"),
			observability.String(observability.AttrGenModel, model),
		)
	}

	request := predictRequest{
		Instances:  []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{SampleCount: 1},
	}

	url := fmt.Sprintf("%s/models/%s:predict", p.baseURL, model)

	_, response, err := utils.DoPostSync[predictResponse](
		ctx, p.client, url, request,
		utils.HeaderOption{Key: "x-goog-api-key", Value: p.apiKey},
	)
	if err != nil {
		return "", translateError(err)
	}

	if response == nil || len(response.Predictions) == 0 {
		return "", &genai.ServiceError{Kind: genai.ErrorUnknown, Message: "API did not return any images."}
	}

	generated := response.Predictions[0]
	mimeType := generated.MimeType
	if mimeType == "" {
		mimeType = generatedImageMimeType
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, generated.BytesBase64Encoded), nil
}

func (p *Provider) checkAPIKey() error {
	if p.apiKey == "" {
		return &genai.ServiceError{
			Kind:    genai.ErrorNotConfigured,
			Message: "GEMINI_API_KEY is not set.",
		}
	}
	return nil
}

// partsToGemini converts generic parts to the wire format, preserving order.
func partsToGemini(parts []genai.Part) []part {
	converted := make([]part, 0, len(parts))
	for _, generic := range parts {
		if generic.Inline != nil {
			converted = append(converted, part{InlineData: &inlineData{
				MimeType: generic.Inline.MimeType,
				Data:     generic.Inline.Data,
			}})
			continue
		}
		converted = append(converted, part{Text: generic.Text})
	}
	return converted
}

// textFromResponse extracts the generated text from the first candidate,
// joining multiple text parts with newlines the way the API may split them.
func textFromResponse(response *generateContentResponse) (string, error) {
	if response == nil || len(response.Candidates) == 0 {
		if response != nil && response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			return "", &genai.ServiceError{
				Kind:    genai.ErrorUnknown,
				Message: "Request was blocked: " + response.PromptFeedback.BlockReason,
			}
		}
		return "", &genai.ServiceError{Kind: genai.ErrorUnknown, Message: "empty response from Gemini API"}
	}

	candidateContent := response.Candidates[0].Content
	if candidateContent == nil {
		return "", &genai.ServiceError{Kind: genai.ErrorUnknown, Message: "candidate has no content"}
	}

	var textParts []string
	for _, candidatePart := range candidateContent.Parts {
		if candidatePart.Text != "" {
			textParts = append(textParts, candidatePart.Text)
		}
	}

	return strings.Join(textParts, "\n"), nil
}

// translateError maps transport failures onto the service error taxonomy.
// Structured API error bodies are parsed; everything else passes through as
// an unknown-kind error with the raw message.
func translateError(err error) error {
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return genai.ParseAPIError(statusErr.StatusCode, statusErr.Body)
	}
	return &genai.ServiceError{Kind: genai.ErrorUnknown, Message: err.Error()}
}

package genai

import (
	"encoding/json"
	"errors"
)

// ErrorKind classifies a generative service failure.
type ErrorKind string

const (
	// ErrorQuotaExceeded means the provider reported rate or quota
	// exhaustion for the caller's plan.
	ErrorQuotaExceeded ErrorKind = "quota_exceeded"

	// ErrorNotConfigured means the required API or capability is not
	// enabled on the caller's account or project.
	ErrorNotConfigured ErrorKind = "not_configured"

	// ErrorUnknown covers every other provider failure; the raw message
	// is passed through.
	ErrorUnknown ErrorKind = "unknown"
)

// ServiceError is a provider failure translated into the engine's taxonomy.
type ServiceError struct {
	Kind ErrorKind

	// Message is the provider's error message, or a fixed guidance
	// message for quota failures.
	Message string

	// ActivationURL is an actionable remediation link for not-configured
	// failures, when the provider supplied one.
	ActivationURL string
}

// Error returns a user-facing message for the failure.
func (e *ServiceError) Error() string {
	switch e.Kind {
	case ErrorQuotaExceeded:
		return "You've exceeded your API quota. Please check your Google AI plan and billing details."
	case ErrorNotConfigured:
		if e.ActivationURL != "" {
			return e.Message + " Enable it at " + e.ActivationURL
		}
		return e.Message
	default:
		if e.Message == "" {
			return "An unknown error occurred."
		}
		return e.Message
	}
}

// AsServiceError unwraps err into a *ServiceError if possible.
func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// apiErrorBody mirrors the structured error envelope returned by Google
// APIs: {"error": {"code", "message", "status", "details": [...]}}.
type apiErrorBody struct {
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Status  string           `json:"status"`
	Details []apiErrorDetail `json:"details"`
}

type apiErrorDetail struct {
	Type     string            `json:"@type"`
	Reason   string            `json:"reason"`
	Metadata map[string]string `json:"metadata"`
	Links    []apiErrorLink    `json:"links"`
}

type apiErrorLink struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ParseAPIError maps a raw provider error response onto the taxonomy by
// inspecting the structured error fields when present. Bodies that are not
// the structured envelope fall back to an unknown-kind error carrying the
// raw text.
func ParseAPIError(statusCode int, body []byte) *ServiceError {
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return &ServiceError{Kind: ErrorUnknown, Message: string(body)}
	}

	apiErr := envelope.Error

	if apiErr.Status == "RESOURCE_EXHAUSTED" || apiErr.Code == 429 || statusCode == 429 {
		return &ServiceError{Kind: ErrorQuotaExceeded, Message: apiErr.Message}
	}

	if apiErr.Status == "PERMISSION_DENIED" || reasonIs(apiErr.Details, "SERVICE_DISABLED") {
		return &ServiceError{
			Kind:          ErrorNotConfigured,
			Message:       apiErr.Message,
			ActivationURL: activationURL(apiErr.Details),
		}
	}

	return &ServiceError{Kind: ErrorUnknown, Message: apiErr.Message}
}

func reasonIs(details []apiErrorDetail, reason string) bool {
	for _, detail := range details {
		if detail.Reason == reason {
			return true
		}
	}
	return false
}

// activationURL extracts a remediation link from the error details: the
// ErrorInfo activationUrl metadata when present, otherwise the first Help
// link.
func activationURL(details []apiErrorDetail) string {
	for _, detail := range details {
		if url := detail.Metadata["activationUrl"]; url != "" {
			return url
		}
	}
	for _, detail := range details {
		for _, link := range detail.Links {
			if link.URL != "" {
				return link.URL
			}
		}
	}
	return ""
}

package workflow

import (
	"fmt"
	"strings"
)

// Values travelling along edges are plain UTF-8 strings. Binary images are
// carried over the same channel as self-describing data URLs of the form
// "data:<mime>;base64,<payload>", so no separate value type is needed.

const imageValuePrefix = "data:image"

// IsImageValue reports whether value is an inline image rather than plain text.
func IsImageValue(value string) bool {
	return strings.HasPrefix(value, imageValuePrefix)
}

// EncodeImageValue wraps base64-encoded image bytes into an inline image value.
func EncodeImageValue(mimeType, base64Data string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data)
}

// DecodeImageValue splits an inline image value into its MIME type and
// base64 payload. It fails when the header or payload is malformed, e.g.
// the MIME type or the comma separator is missing.
func DecodeImageValue(value string) (mimeType, base64Data string, err error) {
	header, payload, found := strings.Cut(value, ",")
	if !found || payload == "" {
		return "", "", fmt.Errorf("inline image value has no payload")
	}

	// Header shape: "data:image/png;base64".
	meta, _, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if meta == "" || !strings.Contains(meta, "/") {
		return "", "", fmt.Errorf("inline image value has no MIME type")
	}

	return meta, payload, nil
}

package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"quill/internal/services"
)

// RequestType identifies which pipeline configuration a queue item runs.
// The set is closed: dispatch switches over it exhaustively so adding a type
// is a compile-visible change.
type RequestType string

const (
	RequestPost       RequestType = "generate-post"
	RequestEvent      RequestType = "generate-event"
	RequestNewsletter RequestType = "generate-newsletter"
)

var requestTypes = []RequestType{RequestPost, RequestEvent, RequestNewsletter}

// RequestTypes returns the ordered list of supported request types.
func RequestTypes() []RequestType {
	cp := make([]RequestType, len(requestTypes))
	copy(cp, requestTypes)
	return cp
}

// ParseRequestType converts a string into a known RequestType.
func ParseRequestType(value string) (RequestType, bool) {
	normalized := RequestType(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case RequestPost, RequestEvent, RequestNewsletter:
		return normalized, true
	default:
		return "", false
	}
}

// Input is the provider-agnostic description of the source material for one
// generation request. Immutable once enqueued.
type Input struct {
	DocumentText string `json:"documentText"`
	MediaType    string `json:"mediaType"`
	Category     string `json:"category,omitempty"`
}

// Output is the structured result of a completed generation request.
type Output struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Excerpt  string `json:"excerpt,omitempty"`
	Polished bool   `json:"polished"`
}

// NormalizeInput trims an enqueue payload and fills defaults. A request that
// omits the media type is treated as plain text.
func NormalizeInput(input Input) Input {
	input.MediaType = strings.TrimSpace(input.MediaType)
	if input.MediaType == "" {
		input.MediaType = MediaTypePlain
	}
	input.Category = strings.TrimSpace(input.Category)
	return input
}

// ValidateInput checks the shape of an enqueue payload before it is persisted.
func ValidateInput(input Input) error {
	if strings.TrimSpace(input.DocumentText) == "" {
		return services.Wrap(services.ErrValidation, "enqueue", "validate input", "document text is required", nil)
	}
	return nil
}

// DecodeInput parses a stored input payload.
func DecodeInput(raw string) (Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return Input{}, fmt.Errorf("decode input payload: %w", err)
	}
	return input, nil
}

// EncodeInput serializes an input payload for storage.
func EncodeInput(input Input) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode input payload: %w", err)
	}
	return string(encoded), nil
}

// DecodeOutput parses a stored output payload.
func DecodeOutput(raw string) (Output, error) {
	var output Output
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		return Output{}, fmt.Errorf("decode output payload: %w", err)
	}
	return output, nil
}

// EncodeOutput serializes an output payload for storage.
func EncodeOutput(output Output) (string, error) {
	encoded, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("encode output payload: %w", err)
	}
	return string(encoded), nil
}

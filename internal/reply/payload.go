// Package reply defines the JSON object printed for every invocation.
package reply

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	RoleAssistant = "assistant"

	// RefusalEmpty marks a successful call that produced no text.
	RefusalEmpty = "Empty response."
	// RefusalAPIError marks every failed invocation.
	RefusalAPIError = "API_ERROR"

	unknownError = "Unknown API Error."
)

// Payload is the success/error shape consumers parse from stdout.
// Refusal is null on a non-empty success.
type Payload struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Refusal     *string      `json:"refusal"`
	Annotations []Annotation `json:"annotations"`
}

// Annotation carries failure detail.
type Annotation struct {
	Error string `json:"error"`
}

// Success builds the payload for a completed call. Content is trimmed;
// empty content is flagged through Refusal, not treated as a failure.
func Success(content string) Payload {
	content = strings.TrimSpace(content)
	p := Payload{
		Role:        RoleAssistant,
		Content:     content,
		Annotations: []Annotation{},
	}
	if content == "" {
		refusal := RefusalEmpty
		p.Refusal = &refusal
	}
	return p
}

// Failure builds the error payload carrying message.
func Failure(message string) Payload {
	if message == "" {
		message = unknownError
	}
	refusal := RefusalAPIError
	return Payload{
		Role:        RoleAssistant,
		Content:     "",
		Refusal:     &refusal,
		Annotations: []Annotation{{Error: message}},
	}
}

// IsError reports whether p is the error shape.
func (p Payload) IsError() bool {
	return p.Refusal != nil && *p.Refusal == RefusalAPIError
}

// Write serializes p as a single line of JSON followed by a newline.
func Write(w io.Writer, p Payload) error {
	if p.Annotations == nil {
		p.Annotations = []Annotation{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("writing reply: %w", err)
	}
	return nil
}

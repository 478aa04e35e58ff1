// Package modeljson decodes structured answers out of free-form model output.
package modeljson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Validator is implemented by payloads that check their own shape after decoding
type Validator interface {
	Validate() error
}

// Result is either Ok (Err == nil, Value set) or a parse error carrying the raw text
type Result[T any] struct {
	Value T
	Raw   string
	Err   error
}

// Ok reports whether the payload decoded and validated
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// ExtractJSON returns the JSON payload of a response, unwrapping a fenced
// ```json block when the model added one.
func ExtractJSON(text string) string {
	lines := strings.Split(text, "\n")
	var buf bytes.Buffer
	inBlock := false
	found := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inBlock && trimmed == "```json" {
			inBlock = true
			found = true
			continue
		}
		if inBlock && trimmed == "```" {
			break
		}
		if inBlock {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}
	if found {
		return strings.TrimSpace(buf.String())
	}

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Parse decodes text into T. Anything that is not a JSON object of the right
// shape, or fails T's Validate, is reported as a parse error with Raw kept.
func Parse[T any](text string) Result[T] {
	res := Result[T]{Raw: text}
	payload := ExtractJSON(text)
	if payload == "" {
		res.Err = fmt.Errorf("empty response")
		return res
	}
	if !strings.HasPrefix(payload, "{") {
		res.Err = fmt.Errorf("response is not a JSON object")
		return res
	}
	if err := json.Unmarshal([]byte(payload), &res.Value); err != nil {
		res.Err = fmt.Errorf("failed to decode response: %w", err)
		return res
	}
	if v, ok := any(&res.Value).(Validator); ok {
		if err := v.Validate(); err != nil {
			res.Err = fmt.Errorf("invalid response: %w", err)
		}
	}
	return res
}

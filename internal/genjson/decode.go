// Package genjson decodes structured JSON produced by text-generation
// models, tolerating the markdown code fences some models wrap output in.
package genjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResponse marks output that is not valid JSON even after fence
// stripping. Callers surface a generic failure and log the raw text; the raw
// model output is never shown to end users.
var ErrInvalidResponse = errors.New("model returned invalid JSON")

// StripFences removes ```json / ``` delimiters. Running it on already-clean
// text returns the text unchanged.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Decode parses raw into v, retrying exactly once after fence stripping.
func Decode(raw string, v any) error {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return fmt.Errorf("%w: empty output", ErrInvalidResponse)
	}
	if !json.Valid([]byte(candidate)) {
		candidate = StripFences(candidate)
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

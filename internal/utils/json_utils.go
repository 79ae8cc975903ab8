package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSONObject decodes text into v. Models often wrap their JSON in
// prose or code fences, so when the whole text does not decode, the span
// from the first '{' to the last '}' is tried.
func DecodeJSONObject(text string, v any) error {
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return fmt.Errorf("failed to extract JSON from LLM response: %w", err)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return nil
}

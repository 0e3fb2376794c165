package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the substring between the first '{' and the last '}'
// of a model response, or "" when no object is present.
func ExtractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

// UnmarshalLenient parses a model response that should contain a single JSON
// object. It first tries the raw text, then falls back to the embedded object
// (models sometimes wrap JSON in prose despite instructions).
func UnmarshalLenient(response string, v interface{}) error {
	trimmed := strings.TrimSpace(response)

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	embedded := ExtractJSON(trimmed)
	if embedded == "" {
		return fmt.Errorf("no JSON object found in response")
	}

	if err := json.Unmarshal([]byte(embedded), v); err != nil {
		return fmt.Errorf("parse embedded JSON: %w", err)
	}
	return nil
}

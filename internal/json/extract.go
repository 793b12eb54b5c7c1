// Package json extracts structured payloads from LLM responses.
//
// Models frequently wrap JSON in fenced code blocks or surround it with
// commentary. These helpers tolerate both before decoding.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode extracts the JSON portion of response and unmarshals it into T.
// Returns an error when no valid JSON object can be found, which callers
// treat as a parse failure distinct from a failed model call.
func Decode[T any](response string) (T, error) {
	var result T
	jsonStr, err := Extract(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

// Extract finds and returns the JSON object within a response string.
// Handles the common patterns:
//  1. Pure JSON response
//  2. JSON wrapped in a fenced block (```json ... ```)
//  3. JSON embedded in text - first '{' to last '}'
//
// Only objects are handled, not arrays; brace matching is textual, so
// unbalanced braces inside strings can defeat it.
func Extract(response string) (string, error) {
	response = stripFences(response)

	var probe interface{}
	if err := json.Unmarshal([]byte(response), &probe); err == nil {
		return response, nil
	}

	start := strings.Index(response, "{")
	if start != -1 {
		end := strings.LastIndex(response, "}")
		if end != -1 && end > start {
			candidate := response[start : end+1]
			if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
				return candidate, nil
			}
		}
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// stripFences removes markdown code fence markers from a response.
// Handles ```json\n...\n``` and bare ```\n...\n```.
func stripFences(response string) string {
	trimmed := strings.TrimSpace(response)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```json"))
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}

	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}

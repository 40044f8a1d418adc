package provider

import (
	"fmt"
	"strconv"
	"strings"
)

const maxResponseTokens = 512

// buildRequestBody shapes the request payload for the provider's format.
func buildRequestBody(format Format, model, systemPrompt, diff string) map[string]any {
	switch format {
	case FormatGemini:
		return map[string]any{
			"system_instruction": map[string]any{
				"parts": []any{map[string]any{"text": systemPrompt}},
			},
			"contents": []any{
				map[string]any{
					"role":  "user",
					"parts": []any{map[string]any{"text": diff}},
				},
			},
			"generationConfig": map[string]any{"temperature": 0},
		}
	case FormatAnthropic:
		return map[string]any{
			"model":  model,
			"system": systemPrompt,
			"messages": []any{
				map[string]any{"role": "user", "content": diff},
			},
			"max_tokens": maxResponseTokens,
		}
	default:
		return map[string]any{
			"model": model,
			"messages": []any{
				map[string]any{"role": "system", "content": systemPrompt},
				map[string]any{"role": "user", "content": diff},
			},
			"max_tokens":  maxResponseTokens,
			"temperature": 0,
		}
	}
}

// parseHeaders splits a "Key: Value, Key2: Value2" header template into
// pairs. Malformed segments are skipped.
func parseHeaders(raw string) [][2]string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var headers [][2]string
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		headers = append(headers, [2]string{strings.TrimSpace(key), strings.TrimSpace(value)})
	}
	return headers
}

// extractByPath walks a decoded JSON value by a dot-separated path such as
// "candidates.0.content.parts.0.text" and returns the string at its end.
func extractByPath(value any, path string) (string, error) {
	current := value
	for _, segment := range strings.Split(path, ".") {
		if index, err := strconv.Atoi(segment); err == nil {
			list, ok := current.([]any)
			if !ok {
				return "", fmt.Errorf("expected array at %q", segment)
			}
			if index < 0 || index >= len(list) {
				return "", fmt.Errorf("array index %d out of bounds", index)
			}
			current = list[index]
			continue
		}

		object, ok := current.(map[string]any)
		if !ok {
			return "", fmt.Errorf("expected object at %q", segment)
		}
		child, ok := object[segment]
		if !ok {
			return "", fmt.Errorf("key %q not found", segment)
		}
		current = child
	}

	text, ok := current.(string)
	if !ok {
		return "", fmt.Errorf("expected string value at path end")
	}
	return text, nil
}

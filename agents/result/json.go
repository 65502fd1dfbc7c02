/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package result pulls structured values out of free-text model output.
package result

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the JSON document embedded in a model response.
//
// In order of preference it returns the body of the first fenced code block
// (```json or a bare ```), the text with inline fences removed, or the
// outermost {...} span when that span is valid JSON. Otherwise it returns
// the trimmed input.
func ExtractJSON(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if body, ok := fencedBlock(text); ok {
		return body
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") && strings.HasSuffix(trimmed, "```") && len(trimmed) >= 6 {
		inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "```"), "```")
		inner = strings.TrimPrefix(inner, "json")
		return strings.TrimSpace(inner)
	}

	if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start >= 0 && end > start {
		if candidate := trimmed[start : end+1]; json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	return trimmed
}

// fencedBlock returns the body of the first code block whose opening fence
// is on its own line.
func fencedBlock(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		marker := strings.TrimSpace(line)
		if marker != "```json" && marker != "```" {
			continue
		}
		var body []string
		for _, l := range lines[i+1:] {
			if strings.TrimSpace(l) == "```" {
				return strings.TrimSpace(strings.Join(body, "\n")), true
			}
			body = append(body, l)
		}
		// Unterminated block: take everything after the fence.
		return strings.TrimSpace(strings.Join(body, "\n")), true
	}
	return "", false
}

// Extract unmarshals the JSON embedded in text into a T.
func Extract[T any](text string) (T, error) {
	var v T
	doc := ExtractJSON(text)
	if doc == "" {
		return v, fmt.Errorf("no JSON content in response")
	}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		return v, fmt.Errorf("parsing JSON response: %w", err)
	}
	return v, nil
}

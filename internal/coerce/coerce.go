// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coerce turns raw generated text into a validated ResearchResponse.
// Generators are asked for bare JSON but routinely wrap the object in prose
// or code fences; this package locates the payload, repairs common syntax
// slips, validates the object against the response contract, and back-fills
// example images from extraction records.
// See docs/ARCHITECTURE.md § Coercion and Validation.
package coerce

import (
	"encoding/json"
	"regexp"

	"github.com/pdiddy/design-research/pkg/types"
)

const snippetLen = 80

// ExtractObject locates the first complete top-level JSON object in text and
// returns it verbatim. Brace matching is string-aware: braces inside string
// literals and escaped quotes do not affect depth. Returns a
// MalformedOutputError when no complete object exists.
func ExtractObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	if start < 0 {
		return "", &types.MalformedOutputError{
			Reason:  "no JSON object found",
			Snippet: snippet(text),
		}
	}
	return "", &types.MalformedOutputError{
		Reason:  "JSON object is never closed",
		Snippet: snippet(text[start:]),
	}
}

// trailingCommaRe matches a comma directly before a closing brace or
// bracket, ignoring intervening whitespace.
var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Parse extracts the first top-level JSON object from text and unmarshals it
// into a generic map. On a parse failure it retries once with trailing
// commas stripped; any remaining failure is a MalformedOutputError.
func Parse(text string) (map[string]any, error) {
	raw, err := ExtractObject(text)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj, nil
	}

	repaired := trailingCommaRe.ReplaceAllString(raw, "$1")
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, &types.MalformedOutputError{
			Reason:  "object does not parse after repair: " + err.Error(),
			Snippet: snippet(raw),
		}
	}
	return obj, nil
}

func snippet(s string) string {
	if len(s) > snippetLen {
		return s[:snippetLen]
	}
	return s
}

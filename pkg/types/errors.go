// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ConfigError reports a missing required credential or invalid setting,
// detected before any external call is made.
type ConfigError struct {
	// Missing lists the credential or setting names that are absent.
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// MalformedOutputError reports that no parseable JSON object could be
// recovered from generated text. Terminal for the request.
type MalformedOutputError struct {
	// Reason explains why parsing failed.
	Reason string

	// Snippet is a short slice of the offending text for diagnostics.
	Snippet string
}

func (e *MalformedOutputError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("malformed generator output: %s", e.Reason)
	}
	return fmt.Sprintf("malformed generator output: %s (near %q)", e.Reason, e.Snippet)
}

// SchemaError reports contract violations in a parsed response object.
// It carries every violating field rather than failing on the first one.
// Terminal for the request.
type SchemaError struct {
	// Violations names each violating field with a reason,
	// e.g. "summary: required string is empty".
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response violates contract (%d fields): %s",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// GenerationError reports that both the streaming and non-streaming
// generation attempts failed. Terminal for the request.
type GenerationError struct {
	StreamErr   error
	FallbackErr error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: stream: %v; fallback: %v", e.StreamErr, e.FallbackErr)
}

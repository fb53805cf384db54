// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the design-research pipeline.
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

// Classification buckets a design question by intent. The enhancer assigns
// exactly one class per request; downstream stages treat it as read-only.
type Classification string

const (
	ClassPattern       Classification = "pattern"
	ClassAccessibility Classification = "accessibility"
	ClassInspiration   Classification = "inspiration"
	ClassFeasibility   Classification = "feasibility"
)

// Valid reports whether c is one of the known classification values.
func (c Classification) Valid() bool {
	switch c {
	case ClassPattern, ClassAccessibility, ClassInspiration, ClassFeasibility:
		return true
	}
	return false
}

// Query is the enhanced form of a user question: the raw text, its
// classification, and the ordered search variants derived from it.
// Immutable once the enhancer returns it.
type Query struct {
	// Question is the raw free-text design question.
	Question string `json:"question" yaml:"question"`

	// Class is the assigned classification.
	Class Classification `json:"class" yaml:"class"`

	// Variants are alternate phrasings issued to search providers, in
	// priority order. The original question is always variant 0.
	Variants []string `json:"variants" yaml:"variants"`
}

// Request carries the caller's question and per-request options into the pipeline.
type Request struct {
	// Question is the free-text design question.
	Question string `json:"question" yaml:"question"`

	// MaxResults caps the ranked result window for this request. Zero means
	// use the configured maximum.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// IncludeImages controls whether the extractor attempts image sub-fetches.
	IncludeImages bool `json:"include_images" yaml:"include_images"`
}

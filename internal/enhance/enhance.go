// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enhance classifies a design question and expands it into search
// variants. Classification is an explicit ordered rule list so precedence is
// a testable contract rather than an accidental branch order.
// See docs/ARCHITECTURE.md § Query Enhancer.
package enhance

import (
	"strings"

	"github.com/pdiddy/design-research/pkg/types"
)

// rule pairs a predicate with the class it assigns. Rules are evaluated in
// order; the first match wins.
type rule struct {
	class    types.Classification
	keywords []string
}

// classificationRules is the priority-ordered rule list. Accessibility
// signals are checked before feasibility, feasibility before inspiration.
// No match falls back to ClassPattern.
var classificationRules = []rule{
	{types.ClassAccessibility, []string{
		"wcag", "accessibility", "aria", "contrast", "keyboard", "screen reader",
	}},
	{types.ClassFeasibility, []string{
		"feasibility", "browser support", "performance", "container queries", "supports",
	}},
	{types.ClassInspiration, []string{
		"examples", "inspiration", "gallery", "show me", "visual",
	}},
}

// variantTemplates lists the augmentation prefixes per class. Variant
// generation appends each prefix to the original question.
var variantTemplates = map[types.Classification][]string{
	types.ClassPattern:       {"best practices", "common pitfalls", "2024 2025"},
	types.ClassAccessibility: {"wcag", "aria", "keyboard navigation"},
	types.ClassInspiration:   {"examples", "ui inspiration", "design patterns"},
	types.ClassFeasibility:   {"browser support", "performance", "mdn"},
}

const maxVariants = 6

// Classify returns the class of a question using the ordered rule list.
func Classify(question string) types.Classification {
	q := strings.ToLower(question)
	for _, r := range classificationRules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.class
			}
		}
	}
	return types.ClassPattern
}

// Variants expands a question into 3-6 deterministic search variants for the
// given class. The original question is always variant 0. Duplicates are
// removed preserving order.
func Variants(question string, class types.Classification) []string {
	base := strings.TrimSpace(question)
	variants := []string{base}
	for _, prefix := range variantTemplates[class] {
		variants = append(variants, prefix+" "+base)
	}

	seen := make(map[string]bool, len(variants))
	deduped := variants[:0]
	for _, v := range variants {
		if seen[v] {
			continue
		}
		seen[v] = true
		deduped = append(deduped, v)
	}
	if len(deduped) > maxVariants {
		deduped = deduped[:maxVariants]
	}
	return deduped
}

// Enhance classifies the question and generates its variants. It never fails:
// absent strong signals the question falls into the default pattern class
// with the default variant set.
func Enhance(question string) types.Query {
	class := Classify(question)
	return types.Query{
		Question: question,
		Class:    class,
		Variants: Variants(question, class),
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"strings"
	"testing"

	"github.com/pdiddy/design-research/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     types.Classification
	}{
		{"wcag signal", "How do I meet WCAG for modals?", types.ClassAccessibility},
		{"screen reader signal", "best screen reader flow for carousels", types.ClassAccessibility},
		{"browser support signal", "what is the browser support for :has()?", types.ClassFeasibility},
		{"container queries signal", "should I use container queries yet", types.ClassFeasibility},
		{"gallery signal", "show me a gallery of pricing pages", types.ClassInspiration},
		{"no signal falls back", "how should a checkout form be laid out", types.ClassPattern},
		{"empty question", "", types.ClassPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

// Accessibility keywords outrank feasibility keywords even when both appear.
func TestClassifyPriorityOrder(t *testing.T) {
	got := Classify("keyboard performance of dropdown menus")
	if got != types.ClassAccessibility {
		t.Errorf("Classify = %q, want accessibility to win over feasibility", got)
	}
}

func TestVariantsBounds(t *testing.T) {
	for _, class := range []types.Classification{
		types.ClassPattern, types.ClassAccessibility, types.ClassInspiration, types.ClassFeasibility,
	} {
		v := Variants("sticky headers", class)
		if len(v) < 3 || len(v) > 6 {
			t.Errorf("class %s: got %d variants, want 3-6", class, len(v))
		}
		if v[0] != "sticky headers" {
			t.Errorf("class %s: variant 0 = %q, want original question", class, v[0])
		}
	}
}

func TestVariantsDeterministic(t *testing.T) {
	a := Variants("card layouts", types.ClassPattern)
	b := Variants("card layouts", types.ClassPattern)
	if len(a) != len(b) {
		t.Fatalf("variant counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("variant %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestVariantsDedupPreservesOrder(t *testing.T) {
	// "wcag modal dialogs" already starts with the wcag prefix, so the
	// augmented "wcag wcag modal dialogs" differs but the base survives as
	// variant 0 exactly once.
	v := Variants("wcag modal dialogs", types.ClassAccessibility)
	seen := make(map[string]bool)
	for _, s := range v {
		if seen[s] {
			t.Errorf("duplicate variant %q", s)
		}
		seen[s] = true
	}
}

func TestEnhanceNeverFails(t *testing.T) {
	q := Enhance("   ")
	if q.Class != types.ClassPattern {
		t.Errorf("class = %q, want pattern fallback", q.Class)
	}
	if len(q.Variants) == 0 {
		t.Error("expected default variant set, got none")
	}
	for _, v := range q.Variants[1:] {
		if !strings.Contains(v, q.Variants[0]) && q.Variants[0] != "" {
			t.Errorf("variant %q does not contain the base question", v)
		}
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coerce

import (
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/design-research/pkg/types"
)

const minimalValid = `{"summary":"x","best_practices":[],"examples":[],"considerations":{"tradeoffs":[],"accessibility":[],"performance":[],"browser_support":[]},"sources":[]}`

func TestParseFencedObjectWithProse(t *testing.T) {
	text := "Here you go:\n```json\n" + minimalValid + "\n```\nHope this helps!"

	obj, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if obj["summary"] != "x" {
		t.Errorf("summary = %v", obj["summary"])
	}
}

func TestParseBareObject(t *testing.T) {
	obj, err := Parse(minimalValid)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if obj["summary"] != "x" {
		t.Errorf("summary = %v", obj["summary"])
	}
}

func TestParseRepairsTrailingCommas(t *testing.T) {
	text := `{"summary":"x","best_practices":["a","b",],"examples":[],"considerations":{"tradeoffs":[],"accessibility":[],"performance":[],"browser_support":[],},"sources":[]}`

	obj, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	bp, ok := obj["best_practices"].([]any)
	if !ok || len(bp) != 2 {
		t.Errorf("best_practices = %v", obj["best_practices"])
	}
}

func TestParseNoObject(t *testing.T) {
	_, err := Parse("Sorry, I cannot answer that.")
	var malformed *types.MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedOutputError", err)
	}
}

func TestParseUnclosedObject(t *testing.T) {
	_, err := Parse(`{"summary": "trailing text that never closes`)
	var malformed *types.MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedOutputError", err)
	}
	if !strings.Contains(malformed.Reason, "never closed") {
		t.Errorf("reason = %q", malformed.Reason)
	}
}

func TestExtractObjectIgnoresBracesInStrings(t *testing.T) {
	text := `prose {"summary":"uses { and } inside","note":"escaped \" quote"} trailing`

	raw, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("ExtractObject: %v", err)
	}
	if !strings.HasPrefix(raw, `{"summary"`) || !strings.HasSuffix(raw, `"}`) {
		t.Errorf("raw = %q", raw)
	}
}

func TestExtractObjectFirstTopLevelWins(t *testing.T) {
	text := `{"first":1} and then {"second":2}`

	raw, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("ExtractObject: %v", err)
	}
	if raw != `{"first":1}` {
		t.Errorf("raw = %q", raw)
	}
}

func TestValidateMinimal(t *testing.T) {
	obj, err := Parse(minimalValid)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	resp, err := Validate(obj)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if resp.Summary != "x" {
		t.Errorf("summary = %q", resp.Summary)
	}
	// Empty lists are valid outcomes, not failures.
	if len(resp.Sources) != 0 || len(resp.Examples) != 0 {
		t.Errorf("unexpected content: %+v", resp)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	obj := map[string]any{
		"summary":        "",
		"best_practices": "not a list",
		"examples": []any{
			map[string]any{"title": "ok title"}, // url missing
		},
		"considerations": map[string]any{
			"tradeoffs": []any{42},
		},
		// sources missing entirely
	}

	_, err := Validate(obj)
	var schemaErr *types.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}

	wantSubstrings := []string{
		"summary",
		"best_practices",
		"examples[0].url",
		"considerations.tradeoffs[0]",
		"sources",
	}
	for _, want := range wantSubstrings {
		found := false
		for _, v := range schemaErr.Violations {
			if strings.Contains(v, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no violation mentions %q; got %v", want, schemaErr.Violations)
		}
	}
}

func TestValidateToleratesNullOptionals(t *testing.T) {
	text := `{"summary":"x","best_practices":["do this"],"examples":[{"title":"t","url":"https://a.com","description":null,"image_url":null,"source_domain":null}],"considerations":{"tradeoffs":[],"accessibility":[],"performance":[],"browser_support":[]},"sources":[{"title":"t","url":"https://a.com","publisher":null,"publish_date":null,"relevance_score":null}]}`

	obj, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	resp, err := Validate(obj)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if resp.Examples[0].ImageURL != "" {
		t.Errorf("null image_url decoded to %q", resp.Examples[0].ImageURL)
	}
}

func TestBackfillImages(t *testing.T) {
	resp := &types.ResearchResponse{
		Summary: "x",
		Examples: []types.Example{
			{Title: "a", URL: "https://a.com/x"},
			{Title: "b", URL: "https://b.com/y", ImageURL: "https://b.com/existing.png"},
			{Title: "c", URL: "https://c.com/z"},
		},
	}
	index := map[string]types.ExtractionRecord{
		"https://a.com/x": {URL: "https://a.com/x", ImageURL: "https://a.com/img.png", ImageOK: true},
	}

	BackfillImages(resp, index)

	if resp.Examples[0].ImageURL != "https://a.com/img.png" {
		t.Errorf("example 0 image = %q, want back-filled", resp.Examples[0].ImageURL)
	}
	if resp.Examples[1].ImageURL != "https://b.com/existing.png" {
		t.Errorf("example 1 image overwritten: %q", resp.Examples[1].ImageURL)
	}
	if resp.Examples[2].ImageURL != "" {
		t.Errorf("example 2 image fabricated: %q", resp.Examples[2].ImageURL)
	}
}

func TestBackfillImagesNormalizesURL(t *testing.T) {
	resp := &types.ResearchResponse{
		Examples: []types.Example{
			{Title: "a", URL: "HTTPS://A.com/x/#section"},
		},
	}
	index := map[string]types.ExtractionRecord{
		"https://a.com/x": {ImageURL: "https://a.com/img.png"},
	}

	BackfillImages(resp, index)

	if resp.Examples[0].ImageURL != "https://a.com/img.png" {
		t.Errorf("image = %q, want matched via normalized URL", resp.Examples[0].ImageURL)
	}
}

func TestAuditCitations(t *testing.T) {
	resp := &types.ResearchResponse{
		Summary:       "Cards beat tables for comparison [1], per usability studies [4].",
		BestPractices: []string{"Use progressive disclosure [2].", "Avoid nested accordions [9]."},
		Sources: []types.Source{
			{URL: "https://a.com"},
			{URL: "https://b.com"},
		},
	}

	AuditCitations(resp)

	if len(resp.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2 entries", resp.Warnings)
	}
	if !strings.Contains(resp.Warnings[0], "[4]") {
		t.Errorf("warning 0 = %q", resp.Warnings[0])
	}
	if !strings.Contains(resp.Warnings[1], "[9]") {
		t.Errorf("warning 1 = %q", resp.Warnings[1])
	}
}

func TestAuditCitationsAllInRange(t *testing.T) {
	resp := &types.ResearchResponse{
		Summary: "All grounded [1][2].",
		Sources: []types.Source{{URL: "https://a.com"}, {URL: "https://b.com"}},
	}

	AuditCitations(resp)

	if len(resp.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", resp.Warnings)
	}
}

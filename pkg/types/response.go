// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Example is a concrete design reference with an optional image.
type Example struct {
	Title        string `json:"title" yaml:"title"`
	URL          string `json:"url" yaml:"url"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	SourceDomain string `json:"source_domain,omitempty" yaml:"source_domain,omitempty"`
}

// Considerations groups tradeoff notes that help a designer weigh the answer.
type Considerations struct {
	Tradeoffs      []string `json:"tradeoffs" yaml:"tradeoffs"`
	Accessibility  []string `json:"accessibility" yaml:"accessibility"`
	Performance    []string `json:"performance" yaml:"performance"`
	BrowserSupport []string `json:"browser_support" yaml:"browser_support"`
}

// Source is citation metadata for one cited page. Inline citation tokens
// [n] in generated text refer to Sources[n-1].
type Source struct {
	Title          string  `json:"title" yaml:"title"`
	URL            string  `json:"url" yaml:"url"`
	Publisher      string  `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishDate    string  `json:"publish_date,omitempty" yaml:"publish_date,omitempty"`
	RelevanceScore float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
}

// ResearchResponse is the validated terminal artifact of the pipeline.
// Empty Examples or Sources lists are valid outcomes, distinct from failure.
type ResearchResponse struct {
	// QueryClassification echoes the enhancer's class, when the generator
	// includes it.
	QueryClassification string `json:"query_classification,omitempty" yaml:"query_classification,omitempty"`

	Summary        string         `json:"summary" yaml:"summary"`
	BestPractices  []string       `json:"best_practices" yaml:"best_practices"`
	Examples       []Example      `json:"examples" yaml:"examples"`
	Considerations Considerations `json:"considerations" yaml:"considerations"`
	Sources        []Source       `json:"sources" yaml:"sources"`

	// Warnings lists quality issues that did not fail validation, such as
	// out-of-range citation indexes.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

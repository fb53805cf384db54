// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult is one normalized hit from a search provider. Aggregation
// produces the union of all surviving (provider, variant) calls; nothing is
// discarded until dedup and ranking.
type SearchResult struct {
	// Title is the page title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the result URL exactly as returned by the provider.
	URL string `json:"url" yaml:"url"`

	// Snippet is the provider's text fragment for the result, if any.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Provider identifies which backend found this result (e.g. "exa", "brave").
	Provider string `json:"provider" yaml:"provider"`

	// VariantIndex is the index of the query variant that surfaced this
	// result. Variant 0 is the original question.
	VariantIndex int `json:"variant_index" yaml:"variant_index"`

	// ProviderRank is the zero-based position of the result within its
	// originating provider call. Earlier positions earn a larger bonus.
	ProviderRank int `json:"provider_rank" yaml:"provider_rank"`
}

// RankedResult is a deduplicated SearchResult with an authority score and
// final rank. There is exactly one RankedResult per normalized URL.
type RankedResult struct {
	SearchResult `yaml:",inline"`

	// NormalizedURL is the dedup key: lower-cased scheme and host, fragment
	// and trailing slash stripped.
	NormalizedURL string `json:"normalized_url" yaml:"normalized_url"`

	// Score is the authority score: domain weight plus positional bonus.
	Score float64 `json:"score" yaml:"score"`

	// Rank is the zero-based position after sorting.
	Rank int `json:"rank" yaml:"rank"`
}

// ExtractionRecord holds the outcome of the two sub-fetches for one ranked
// URL. Records are written once per extraction phase and never mutated
// afterwards. Partial success (text-only or image-only) is a valid outcome.
type ExtractionRecord struct {
	// URL is the original ranked URL the record belongs to.
	URL string `json:"url" yaml:"url"`

	// NormalizedURL keys the record for image back-fill lookups.
	NormalizedURL string `json:"normalized_url" yaml:"normalized_url"`

	// Title carries the ranked result's title through to the prompt.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Text is the cleaned page text, empty when the text sub-fetch failed.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// ImageURL is the primary image, empty when none was found.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	// TextOK and ImageOK report sub-fetch success independently.
	TextOK  bool `json:"text_ok" yaml:"text_ok"`
	ImageOK bool `json:"image_ok" yaml:"image_ok"`

	// FailureReason explains the first sub-fetch failure, if any
	// (e.g. "text: deadline exceeded").
	FailureReason string `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-call HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "design-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search aggregation stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// ExaResultsPerVariant caps results per Exa call (default 6).
	ExaResultsPerVariant int `json:"exa_results_per_variant" yaml:"exa_results_per_variant"`

	// BraveResultsPerVariant caps results per Brave call (default 8).
	BraveResultsPerVariant int `json:"brave_results_per_variant" yaml:"brave_results_per_variant"`

	// EnableBrave controls whether the optional Brave web provider is used
	// alongside the mandatory Exa semantic provider.
	EnableBrave bool `json:"enable_brave" yaml:"enable_brave"`

	// Concurrency bounds the number of in-flight (provider, variant) calls
	// (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// PhaseDeadline bounds the total wall-clock of the search fan-out
	// (default 30s).
	PhaseDeadline time.Duration `json:"phase_deadline" yaml:"phase_deadline"`

	// ExaAPIKey authenticates the Exa provider. Required.
	ExaAPIKey string `json:"exa_api_key,omitempty" yaml:"exa_api_key,omitempty"`

	// BraveAPIKey authenticates the Brave provider. Required when EnableBrave.
	BraveAPIKey string `json:"brave_api_key,omitempty" yaml:"brave_api_key,omitempty"`
}

// RankConfig bounds the deduplicated ranking window.
type RankConfig struct {
	// MinRanked is the smallest window returned when enough unique results
	// exist (default 6).
	MinRanked int `json:"min_ranked" yaml:"min_ranked"`

	// MaxRanked truncates the lowest-scored tail (default 8).
	MaxRanked int `json:"max_ranked" yaml:"max_ranked"`
}

// ExtractConfig holds settings for the parallel extraction stage.
type ExtractConfig struct {
	HTTPConfig `yaml:",inline"`

	// TopK is the number of top-ranked URLs to extract (default 10).
	TopK int `json:"top_k" yaml:"top_k"`

	// Concurrency bounds in-flight sub-fetches across all URLs (default 5).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// PhaseDeadline bounds the total wall-clock of the extraction phase
	// (default 60s). Sub-fetches still outstanding at the deadline are
	// abandoned and recorded as timed out.
	PhaseDeadline time.Duration `json:"phase_deadline" yaml:"phase_deadline"`
}

// GeneratorProvider identifies the generation backend.
type GeneratorProvider string

const (
	ProviderClaude GeneratorProvider = "claude"
	ProviderOpenAI GeneratorProvider = "openai"
)

// SynthesisConfig holds settings for the synthesis stage.
type SynthesisConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the generation backend (default claude).
	Provider GeneratorProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier passed to the backend.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates the generation backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ExcerptMaxChars hard-caps each source excerpt embedded in the prompt
	// (default 1200).
	ExcerptMaxChars int `json:"excerpt_max_chars" yaml:"excerpt_max_chars"`

	// ExpectedAnalysisChars sizes streaming progress events so callers can
	// render determinate progress (default 6000).
	ExpectedAnalysisChars int `json:"expected_analysis_chars" yaml:"expected_analysis_chars"`
}

// HistoryConfig holds settings for the run-history archive.
type HistoryConfig struct {
	// Dir is the directory holding the history database (default ".design-research").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults caps history query output (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Rank      RankConfig      `json:"rank" yaml:"rank"`
	Extract   ExtractConfig   `json:"extract" yaml:"extract"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}

// DefaultPipelineConfig returns the configuration used when no overrides are set.
func DefaultPipelineConfig() PipelineConfig {
	const userAgent = "design-research/0.1"
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig:             HTTPConfig{Timeout: 20 * time.Second, UserAgent: userAgent},
			ExaResultsPerVariant:   6,
			BraveResultsPerVariant: 8,
			Concurrency:            4,
			PhaseDeadline:          30 * time.Second,
		},
		Rank: RankConfig{MinRanked: 6, MaxRanked: 8},
		Extract: ExtractConfig{
			HTTPConfig:    HTTPConfig{Timeout: 45 * time.Second, UserAgent: userAgent},
			TopK:          10,
			Concurrency:   5,
			PhaseDeadline: 60 * time.Second,
		},
		Synthesis: SynthesisConfig{
			HTTPConfig:            HTTPConfig{Timeout: 90 * time.Second, UserAgent: userAgent},
			Provider:              ProviderClaude,
			Model:                 "claude-sonnet-4-5-20250929",
			ExcerptMaxChars:       1200,
			ExpectedAnalysisChars: 6000,
		},
		History: HistoryConfig{Dir: ".design-research", MaxResults: 20},
	}
}

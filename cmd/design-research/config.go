// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/design-research/internal/secrets"
	"github.com/pdiddy/design-research/pkg/types"
)

// loadConfig builds the pipeline configuration from defaults, overlaid with
// config-file/environment values and the loaded secrets.
func loadConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	setInt := func(dst *int, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}
	setBool := func(dst *bool, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetBool(key)
		}
	}
	setString := func(dst *string, key string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}

	setInt(&cfg.Search.ExaResultsPerVariant, "search.exa_results_per_variant")
	setInt(&cfg.Search.BraveResultsPerVariant, "search.brave_results_per_variant")
	setBool(&cfg.Search.EnableBrave, "search.enable_brave")
	setInt(&cfg.Search.Concurrency, "search.concurrency")
	if viper.IsSet("search.timeout") {
		cfg.Search.Timeout = viper.GetDuration("search.timeout")
	}
	if viper.IsSet("search.phase_deadline") {
		cfg.Search.PhaseDeadline = viper.GetDuration("search.phase_deadline")
	}

	setInt(&cfg.Rank.MinRanked, "rank.min_ranked")
	setInt(&cfg.Rank.MaxRanked, "rank.max_ranked")

	setInt(&cfg.Extract.TopK, "extract.top_k")
	setInt(&cfg.Extract.Concurrency, "extract.concurrency")
	if viper.IsSet("extract.timeout") {
		cfg.Extract.Timeout = viper.GetDuration("extract.timeout")
	}
	if viper.IsSet("extract.phase_deadline") {
		cfg.Extract.PhaseDeadline = viper.GetDuration("extract.phase_deadline")
	}

	if viper.IsSet("synthesis.provider") {
		cfg.Synthesis.Provider = types.GeneratorProvider(viper.GetString("synthesis.provider"))
	}
	setString(&cfg.Synthesis.Model, "synthesis.model")
	setInt(&cfg.Synthesis.ExcerptMaxChars, "synthesis.excerpt_max_chars")
	setInt(&cfg.Synthesis.ExpectedAnalysisChars, "synthesis.expected_analysis_chars")

	setString(&cfg.History.Dir, "history.dir")
	setInt(&cfg.History.MaxResults, "history.max_results")

	cfg.Search.ExaAPIKey = secretDefault(secrets.KeyExa, viper.GetString("search.exa_api_key"))
	cfg.Search.BraveAPIKey = secretDefault(secrets.KeyBrave, viper.GetString("search.brave_api_key"))
	switch cfg.Synthesis.Provider {
	case types.ProviderOpenAI:
		cfg.Synthesis.APIKey = secretDefault(secrets.KeyOpenAI, viper.GetString("synthesis.api_key"))
	default:
		cfg.Synthesis.APIKey = secretDefault(secrets.KeyAnthropic, viper.GetString("synthesis.api_key"))
	}

	return cfg
}

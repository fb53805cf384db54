// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the research stages: enhance, search, rank,
// extract, synthesize, validate. Per-call failures inside the concurrent
// stages are absorbed there; this package handles stage sequencing, stage
// events, and the terminal errors.
// See docs/ARCHITECTURE.md § Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pdiddy/design-research/internal/coerce"
	"github.com/pdiddy/design-research/internal/enhance"
	"github.com/pdiddy/design-research/internal/extract"
	"github.com/pdiddy/design-research/internal/search"
	"github.com/pdiddy/design-research/internal/synth"
	"github.com/pdiddy/design-research/pkg/types"
)

// Stage completion fractions reported to observers. Synthesis streaming
// progress fills the gap between fracExtract and fracSynthesized.
const (
	fracEnhanced    = 0.05
	fracSearched    = 0.33
	fracRanked      = 0.40
	fracExtracted   = 0.66
	fracSynthesized = 0.90
	fracValidated   = 0.95
)

// Pipeline runs one research request end to end. Collaborator fields are
// exported so tests can substitute fakes; New wires the production set.
type Pipeline struct {
	Config    types.PipelineConfig
	Providers []search.Provider
	Fetcher   extract.Fetcher
	Generator synth.Generator

	// Observer receives stage events. May be nil.
	Observer types.Observer

	// Log receives absorbed-failure diagnostics. Defaults to stderr.
	Log io.Writer
}

// New builds a production pipeline from configuration, constructing the
// search providers, fetcher, and generator it implies. Missing credentials
// are a ConfigError, detected here before any external call.
func New(cfg types.PipelineConfig) (*Pipeline, error) {
	var missing []string
	if cfg.Search.ExaAPIKey == "" {
		missing = append(missing, "exa-api-key")
	}
	if cfg.Search.EnableBrave && cfg.Search.BraveAPIKey == "" {
		missing = append(missing, "brave-api-key")
	}
	if cfg.Synthesis.APIKey == "" {
		switch cfg.Synthesis.Provider {
		case types.ProviderOpenAI:
			missing = append(missing, "openai-api-key")
		default:
			missing = append(missing, "anthropic-api-key")
		}
	}
	if len(missing) > 0 {
		return nil, &types.ConfigError{Missing: missing}
	}

	searchClient := &http.Client{Timeout: cfg.Search.Timeout}
	providers := []search.Provider{
		&search.ExaProvider{Client: searchClient, APIKey: cfg.Search.ExaAPIKey},
	}
	if cfg.Search.EnableBrave {
		providers = append(providers, &search.BraveProvider{Client: searchClient, APIKey: cfg.Search.BraveAPIKey})
	}

	var gen synth.Generator
	genClient := &http.Client{Timeout: cfg.Synthesis.Timeout}
	switch cfg.Synthesis.Provider {
	case types.ProviderOpenAI:
		gen = &synth.OpenAIGenerator{APIKey: cfg.Synthesis.APIKey, Model: cfg.Synthesis.Model, Client: genClient}
	default:
		gen = &synth.ClaudeGenerator{APIKey: cfg.Synthesis.APIKey, Model: cfg.Synthesis.Model, Client: genClient}
	}

	return &Pipeline{
		Config:    cfg,
		Providers: providers,
		Fetcher:   &extract.WebFetcher{Client: &http.Client{Timeout: cfg.Extract.Timeout}, Config: cfg.Extract.HTTPConfig},
		Generator: gen,
		Log:       os.Stderr,
	}, nil
}

// Run executes the full pipeline for one request. The request is stateless:
// nothing persists between invocations, and independent requests need no
// coordination. Terminal errors are MalformedOutputError, SchemaError,
// GenerationError, or a plain error when no stage input survives.
func (p *Pipeline) Run(ctx context.Context, req types.Request) (*types.ResearchResponse, error) {
	log := p.Log
	if log == nil {
		log = os.Stderr
	}

	// Enhance. Never fails.
	p.emit(types.StageEnhance, types.StatusStarted, 0, "")
	query := enhance.Enhance(req.Question)
	p.emit(types.StageEnhance, types.StatusCompleted, fracEnhanced,
		fmt.Sprintf("class=%s variants=%d", query.Class, len(query.Variants)))

	// Search fan-out.
	p.emit(types.StageSearch, types.StatusStarted, fracEnhanced, "")
	out := search.Aggregate(ctx, p.Providers, query.Variants, p.Config.Search, log)
	if out.CallsDropped > 0 {
		p.emit(types.StageSearch, types.StatusWarning, fracEnhanced,
			fmt.Sprintf("%d of %d search calls dropped", out.CallsDropped, out.CallsIssued))
	}
	if len(out.Results) == 0 {
		p.emit(types.StageSearch, types.StatusFailed, fracEnhanced, "no results from any provider")
		return nil, fmt.Errorf("search produced no results (%d calls, %d dropped)", out.CallsIssued, out.CallsDropped)
	}
	p.emit(types.StageSearch, types.StatusCompleted, fracSearched,
		fmt.Sprintf("%d results", len(out.Results)))

	// Dedup and rank.
	p.emit(types.StageRank, types.StatusStarted, fracSearched, "")
	ranked := search.DedupAndRank(out.Results, p.Config.Rank, req.MaxResults)
	p.emit(types.StageRank, types.StatusCompleted, fracRanked,
		fmt.Sprintf("%d unique sources", len(ranked)))

	// Parallel extraction.
	p.emit(types.StageExtract, types.StatusStarted, fracRanked, "")
	records := extract.ExtractAll(ctx, p.Fetcher, ranked, req.IncludeImages, p.Config.Extract, log)
	textOK, imageOK := 0, 0
	for _, rec := range records {
		if rec.TextOK {
			textOK++
		}
		if rec.ImageOK {
			imageOK++
		}
	}
	p.emit(types.StageExtract, types.StatusCompleted, fracExtracted,
		fmt.Sprintf("text %d/%d, images %d", textOK, len(records), imageOK))

	// Synthesis, streaming preferred.
	prompt, err := synth.BuildPrompt(query, ranked, records, p.Config.Synthesis)
	if err != nil {
		p.emit(types.StageSynthesize, types.StatusFailed, fracExtracted, err.Error())
		return nil, err
	}
	p.emit(types.StageSynthesize, types.StatusStarted, fracExtracted, "")
	progress := func(frac float64) {
		p.emit(types.StageSynthesize, types.StatusProgress, frac, "")
	}
	text, err := synth.Synthesize(ctx, p.Generator, prompt, p.Config.Synthesis, progress, log)
	if err != nil {
		p.emit(types.StageSynthesize, types.StatusFailed, fracExtracted, err.Error())
		return nil, err
	}
	p.emit(types.StageSynthesize, types.StatusCompleted, fracSynthesized, "")

	// Coercion and validation.
	p.emit(types.StageValidate, types.StatusStarted, fracSynthesized, "")
	obj, err := coerce.Parse(text)
	if err != nil {
		p.emit(types.StageValidate, types.StatusFailed, fracSynthesized, err.Error())
		return nil, err
	}
	resp, err := coerce.Validate(obj)
	if err != nil {
		p.emit(types.StageValidate, types.StatusFailed, fracSynthesized, err.Error())
		return nil, err
	}
	coerce.BackfillImages(resp, extract.RecordIndex(records))
	coerce.AuditCitations(resp)
	if resp.QueryClassification == "" {
		resp.QueryClassification = string(query.Class)
	}
	for _, warning := range resp.Warnings {
		p.emit(types.StageValidate, types.StatusWarning, fracValidated, warning)
	}
	p.emit(types.StageValidate, types.StatusCompleted, fracValidated,
		fmt.Sprintf("%d sources, %d examples", len(resp.Sources), len(resp.Examples)))

	p.emit(types.StageDone, types.StatusCompleted, 1.0, "")
	return resp, nil
}

func (p *Pipeline) emit(stage string, status types.StageStatus, frac float64, detail string) {
	if p.Observer == nil {
		return
	}
	p.Observer(types.StageEvent{
		Stage:    stage,
		Status:   status,
		Time:     time.Now(),
		Fraction: frac,
		Detail:   detail,
	})
}

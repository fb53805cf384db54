// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fans a query's variants out across search providers and
// returns unified, deduplicated, authority-ranked results.
// See docs/ARCHITECTURE.md § Search Aggregator, § Deduplicator & Ranker.
package search

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/design-research/pkg/types"
)

// Provider searches a single external backend. Each provider (Exa, Brave)
// implements this interface per the Strategy pattern.
type Provider interface {
	Name() string
	Search(ctx context.Context, variant string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// Output holds the aggregated results and per-call failure notes.
type Output struct {
	Results      []types.SearchResult
	CallErrors   []string
	CallsIssued  int
	CallsDropped int
}

// Aggregate issues one bounded-concurrency call per (provider, variant) pair.
// A call that errors or exceeds its timeout is dropped — logged to w, not
// retried — and never aborts sibling calls. The returned result set is the
// union of all surviving calls in deterministic (provider, variant) order;
// nothing is discarded here except by downstream dedup and ranking.
func Aggregate(ctx context.Context, providers []Provider, variants []string, cfg types.SearchConfig, w io.Writer) Output {
	type task struct {
		provider Provider
		variant  string
		index    int
	}

	var tasks []task
	for _, p := range providers {
		for vi, v := range variants {
			tasks = append(tasks, task{provider: p, variant: v, index: vi})
		}
	}

	phaseCtx, cancel := context.WithTimeout(ctx, phaseDeadline(cfg))
	defer cancel()

	// One output slot per task; tasks never share a slot, so the merge
	// after Wait needs no locking.
	slots := make([][]types.SearchResult, len(tasks))
	errSlots := make([]string, len(tasks))

	var g errgroup.Group
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	for i, tk := range tasks {
		i, tk := i, tk
		g.Go(func() error {
			callCtx, cancelCall := context.WithTimeout(phaseCtx, cfg.Timeout)
			defer cancelCall()

			results, err := tk.provider.Search(callCtx, tk.variant, cfg)
			if err != nil {
				errSlots[i] = fmt.Sprintf("%s variant %d: %v", tk.provider.Name(), tk.index, err)
				fmt.Fprintf(w, "warning: search call dropped: %s\n", errSlots[i])
				return nil
			}
			for j := range results {
				results[j].VariantIndex = tk.index
			}
			slots[i] = results
			return nil
		})
	}
	g.Wait()

	out := Output{CallsIssued: len(tasks)}
	for i := range tasks {
		if errSlots[i] != "" {
			out.CallErrors = append(out.CallErrors, errSlots[i])
			out.CallsDropped++
			continue
		}
		out.Results = append(out.Results, slots[i]...)
	}
	return out
}

func phaseDeadline(cfg types.SearchConfig) time.Duration {
	if cfg.PhaseDeadline > 0 {
		return cfg.PhaseDeadline
	}
	return 30 * time.Second
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract fetches page text and a primary image for the top-ranked
// URLs under bounded concurrency, per-call timeouts, and a phase deadline.
// See docs/ARCHITECTURE.md § Parallel Extractor.
package extract

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/design-research/internal/search"
	"github.com/pdiddy/design-research/pkg/types"
)

// Fetcher abstracts content retrieval so tests can supply fakes. FetchText
// returns cleaned readable text; FetchHTML returns raw markup for image
// derivation. Both must honor context cancellation.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	FetchHTML(ctx context.Context, url string) (string, error)
}

// fetchOutcome carries one sub-fetch result to its collector.
type fetchOutcome struct {
	value string
	err   error
}

// ExtractAll runs two independent sub-fetches (text and image) for each of
// the top-K ranked URLs. Failure of either sub-fetch yields a partial-success
// record and never blocks extraction for other URLs. Any sub-fetch still
// outstanding when the phase deadline elapses is abandoned and recorded as
// timed out; the phase completes regardless of individual call latency.
//
// Records are returned in ranked order, one per input URL, and are not
// mutated after this function returns.
func ExtractAll(ctx context.Context, fetcher Fetcher, ranked []types.RankedResult, includeImages bool, cfg types.ExtractConfig, w io.Writer) []types.ExtractionRecord {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 10
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	phaseCtx, cancel := context.WithTimeout(ctx, phaseDeadline(cfg))
	defer cancel()

	concurrency := int64(cfg.Concurrency)
	if concurrency <= 0 {
		concurrency = 5
	}
	sem := semaphore.NewWeighted(concurrency)

	// One record slot per URL; collectors never share a slot, so the merge
	// after Wait needs no locking.
	records := make([]types.ExtractionRecord, len(ranked))

	var wg sync.WaitGroup
	for i, r := range ranked {
		i, r := i, r
		wg.Add(1)
		go func() {
			defer wg.Done()
			records[i] = extractOne(phaseCtx, fetcher, sem, r, includeImages, cfg, w)
		}()
	}
	wg.Wait()

	return records
}

// extractOne assembles the ExtractionRecord for a single URL. It launches
// the text and image sub-fetches concurrently and collects each outcome,
// giving up at the phase deadline. Sub-fetch goroutines send into buffered
// channels, so a late or hung fetch is simply never read — abandoned, not
// awaited.
func extractOne(ctx context.Context, fetcher Fetcher, sem *semaphore.Weighted, r types.RankedResult, includeImages bool, cfg types.ExtractConfig, w io.Writer) types.ExtractionRecord {
	rec := types.ExtractionRecord{
		URL:           r.URL,
		NormalizedURL: r.NormalizedURL,
		Title:         r.Title,
	}

	textCh := make(chan fetchOutcome, 1)
	go func() {
		textCh <- runSubFetch(ctx, sem, cfg.Timeout, func(callCtx context.Context) (string, error) {
			return fetcher.FetchText(callCtx, r.URL)
		})
	}()

	var imageCh chan fetchOutcome
	if includeImages {
		imageCh = make(chan fetchOutcome, 1)
		go func() {
			imageCh <- runSubFetch(ctx, sem, cfg.Timeout, func(callCtx context.Context) (string, error) {
				markup, err := fetcher.FetchHTML(callCtx, r.URL)
				if err != nil {
					return "", err
				}
				return PrimaryImage(markup, r.URL), nil
			})
		}()
	}

	select {
	case out := <-textCh:
		if out.err != nil {
			rec.FailureReason = appendReason(rec.FailureReason, "text: "+out.err.Error())
			fmt.Fprintf(w, "warning: text fetch failed for %s: %v\n", r.URL, out.err)
		} else {
			rec.Text = out.value
			rec.TextOK = true
		}
	case <-ctx.Done():
		rec.FailureReason = appendReason(rec.FailureReason, "text: phase deadline exceeded")
		fmt.Fprintf(w, "warning: text fetch abandoned for %s: phase deadline exceeded\n", r.URL)
	}

	if imageCh != nil {
		select {
		case out := <-imageCh:
			if out.err != nil {
				rec.FailureReason = appendReason(rec.FailureReason, "image: "+out.err.Error())
				fmt.Fprintf(w, "warning: image fetch failed for %s: %v\n", r.URL, out.err)
			} else if out.value != "" {
				rec.ImageURL = out.value
				rec.ImageOK = true
			}
		case <-ctx.Done():
			rec.FailureReason = appendReason(rec.FailureReason, "image: phase deadline exceeded")
			fmt.Fprintf(w, "warning: image fetch abandoned for %s: phase deadline exceeded\n", r.URL)
		}
	}

	return rec
}

// runSubFetch bounds one sub-fetch by the worker semaphore and its own
// timeout. Acquiring the semaphore fails once the phase deadline passes,
// which counts as a timeout for this sub-fetch.
func runSubFetch(ctx context.Context, sem *semaphore.Weighted, timeout time.Duration, fn func(context.Context) (string, error)) fetchOutcome {
	if err := sem.Acquire(ctx, 1); err != nil {
		return fetchOutcome{err: fmt.Errorf("deadline exceeded before fetch started: %w", err)}
	}
	defer sem.Release(1)

	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	value, err := fn(callCtx)
	return fetchOutcome{value: value, err: err}
}

func appendReason(existing, add string) string {
	if existing == "" {
		return add
	}
	return existing + "; " + add
}

func phaseDeadline(cfg types.ExtractConfig) time.Duration {
	if cfg.PhaseDeadline > 0 {
		return cfg.PhaseDeadline
	}
	return 60 * time.Second
}

// RecordIndex builds a normalized-URL lookup over extraction records, used
// by the validator to back-fill example images.
func RecordIndex(records []types.ExtractionRecord) map[string]types.ExtractionRecord {
	idx := make(map[string]types.ExtractionRecord, len(records))
	for _, rec := range records {
		key := rec.NormalizedURL
		if key == "" {
			key = search.NormalizeURL(rec.URL)
		}
		idx[key] = rec
	}
	return idx
}

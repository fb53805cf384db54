// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth builds the grounded synthesis prompt and drives generation,
// preferring a streaming call with a single non-streaming fallback.
// See docs/ARCHITECTURE.md § Synthesis Coordinator.
package synth

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/design-research/pkg/types"
)

// Generator abstracts the generation provider. GenerateStream delivers text
// chunks to onChunk as they arrive and returns the accumulated full text;
// Generate returns equivalent complete text in one call. Implementations
// must support both modes.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string, onChunk func(string)) (string, error)
}

// Progress receives synthesis progress fractions in [0,1]. May be nil.
type Progress func(fraction float64)

// Streaming progress is rendered inside a fixed band of overall pipeline
// progress; the band endpoints match the stage layout reported to observers.
const (
	progressBandStart = 0.70
	progressBandEnd   = 0.90
)

// Synthesize invokes the generator, preferring streaming. If the stream
// fails or is unavailable it falls back exactly once to a non-streaming
// call; two consecutive failures are terminal for the request. While
// streaming, progress is estimated against cfg.ExpectedAnalysisChars so a
// caller can render determinate progress without knowing true completion
// time.
func Synthesize(ctx context.Context, gen Generator, prompt string, cfg types.SynthesisConfig, progress Progress, w io.Writer) (string, error) {
	expected := cfg.ExpectedAnalysisChars
	if expected <= 0 {
		expected = 6000
	}

	accumulated := 0
	onChunk := func(chunk string) {
		accumulated += len(chunk)
		if progress == nil {
			return
		}
		frac := progressBandStart + (progressBandEnd-progressBandStart)*float64(accumulated)/float64(expected)
		if frac > progressBandEnd {
			frac = progressBandEnd
		}
		progress(frac)
	}

	text, streamErr := gen.GenerateStream(ctx, prompt, onChunk)
	if streamErr == nil {
		return text, nil
	}
	fmt.Fprintf(w, "warning: streaming generation failed (%s), falling back to non-streaming: %v\n", gen.Name(), streamErr)

	text, fallbackErr := gen.Generate(ctx, prompt)
	if fallbackErr == nil {
		if progress != nil {
			progress(progressBandEnd)
		}
		return text, nil
	}

	return "", &types.GenerationError{StreamErr: streamErr, FallbackErr: fallbackErr}
}

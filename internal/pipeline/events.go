// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"

	"github.com/pdiddy/design-research/pkg/types"
)

// WriterObserver returns an Observer that renders stage events as single
// log lines. Streaming progress events are suppressed to one line per
// five-point change so a terminal is not flooded during synthesis.
func WriterObserver(w io.Writer) types.Observer {
	lastProgress := -1
	return func(ev types.StageEvent) {
		if ev.Status == types.StatusProgress {
			pct := int(ev.Fraction * 100)
			if pct/5 == lastProgress/5 && lastProgress >= 0 {
				return
			}
			lastProgress = pct
			fmt.Fprintf(w, "%s  %-11s %3d%%\n", ev.Time.Format("15:04:05"), ev.Stage, pct)
			return
		}

		line := fmt.Sprintf("%s  %-11s %-9s %3d%%",
			ev.Time.Format("15:04:05"), ev.Stage, ev.Status, int(ev.Fraction*100))
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Fprintln(w, line)
	}
}

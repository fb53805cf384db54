// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coerce

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/design-research/pkg/types"
)

// numericCiteRe matches inline bracket citations like [3].
var numericCiteRe = regexp.MustCompile(`\[(\d+)\]`)

// AuditCitations checks every [n] token in the summary and best-practice
// text against the sources list. An out-of-range index is a quality problem,
// not a contract violation, so it is appended to resp.Warnings rather than
// failing the request.
func AuditCitations(resp *types.ResearchResponse) {
	nSources := len(resp.Sources)
	seen := make(map[int]bool)

	audit := func(text string) {
		for _, m := range numericCiteRe.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if (n < 1 || n > nSources) && !seen[n] {
				seen[n] = true
				resp.Warnings = append(resp.Warnings,
					fmt.Sprintf("citation [%d] has no matching source (have %d)", n, nSources))
			}
		}
	}

	audit(resp.Summary)
	audit(strings.Join(resp.BestPractices, "\n"))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/design-research/pkg/types"
)

// domainWeights is the authority lookup table. Hosts are matched by suffix
// so subdomains inherit their parent's weight.
var domainWeights = map[string]float64{
	"nngroup.com":           3.0,
	"web.dev":               3.0,
	"developer.mozilla.org": 3.0,
	"w3.org":                3.0,
	"baymard.com":           2.5,
	"alistapart.com":        2.0,
	"smashingmagazine.com":  2.0,
	"lawsofux.com":          2.0,
}

// defaultDomainWeight is assigned to hosts not in the table.
const defaultDomainWeight = 0.5

// NormalizeURL returns the dedup key for a URL: scheme and host lower-cased,
// fragment and trailing slash stripped. Two URLs differing only in those
// respects collapse to one ranked result.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		// Unparseable input: best-effort normalization on the raw string.
		s := strings.TrimSpace(raw)
		if i := strings.IndexByte(s, '#'); i >= 0 {
			s = s[:i]
		}
		return strings.TrimSuffix(s, "/")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// domainWeight returns the authority weight for a URL's host.
func domainWeight(raw string) float64 {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return defaultDomainWeight
	}
	host := strings.ToLower(u.Hostname())
	for domain, weight := range domainWeights {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return weight
		}
	}
	return defaultDomainWeight
}

// positionalBonus rewards results surfaced earlier by their provider. The
// first result of any call earns +1.0 and the bonus decays harmonically, so
// domain authority stays the dominant term.
func positionalBonus(providerRank int) float64 {
	if providerRank < 0 {
		providerRank = 0
	}
	return 1.0 / float64(1+providerRank)
}

// score computes the authority score for one result occurrence.
func score(r types.SearchResult) float64 {
	return domainWeight(r.URL) + positionalBonus(r.ProviderRank)
}

// DedupAndRank collapses duplicate URLs, scores by authority, orders
// deterministically, and clips to the configured window. When a URL recurs
// the first-seen title and snippet are kept but the score is raised to the
// maximum observed, so later weaker occurrences never downgrade a source.
func DedupAndRank(results []types.SearchResult, cfg types.RankConfig, requestMax int) []types.RankedResult {
	seen := make(map[string]int) // normalized URL → index in unique
	var unique []types.RankedResult

	for _, r := range results {
		if r.URL == "" {
			continue
		}
		key := NormalizeURL(r.URL)
		s := score(r)
		if idx, ok := seen[key]; ok {
			if s > unique[idx].Score {
				unique[idx].Score = s
			}
			continue
		}
		seen[key] = len(unique)
		unique = append(unique, types.RankedResult{
			SearchResult:  r,
			NormalizedURL: key,
			Score:         s,
		})
	}

	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.VariantIndex != b.VariantIndex {
			return a.VariantIndex < b.VariantIndex
		}
		return a.NormalizedURL < b.NormalizedURL
	})

	unique = clipWindow(unique, cfg, requestMax)
	for i := range unique {
		unique[i].Rank = i
	}
	return unique
}

// clipWindow bounds the output size to [MinRanked, MaxRanked]. Fewer unique
// results than MinRanked are returned in full; a caller-requested maximum
// below MinRanked is raised to MinRanked.
func clipWindow(ranked []types.RankedResult, cfg types.RankConfig, requestMax int) []types.RankedResult {
	minRanked := cfg.MinRanked
	if minRanked <= 0 {
		minRanked = 6
	}
	maxRanked := cfg.MaxRanked
	if maxRanked < minRanked {
		maxRanked = minRanked
	}

	limit := maxRanked
	if requestMax > 0 && requestMax < limit {
		limit = requestMax
	}
	if limit < minRanked {
		limit = minRanked
	}

	if len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/design-research/internal/httputil"
	"github.com/pdiddy/design-research/pkg/types"
)

// braveAPIBase is the Brave web search endpoint. Declared as a var so tests
// can substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

// BraveProvider queries the Brave web search API. Optional; enabled by
// configuration when a key is available.
type BraveProvider struct {
	Client *http.Client
	APIKey string
}

// Name returns the provider identifier.
func (p *BraveProvider) Name() string { return "brave" }

// Search issues one variant to the Brave API and returns normalized results.
func (p *BraveProvider) Search(ctx context.Context, variant string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	limit := cfg.BraveResultsPerVariant
	if limit <= 0 {
		limit = 8
	}

	params := url.Values{
		"q":     {variant},
		"count": {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("X-Subscription-Token", p.APIKey)

	resp, err := httputil.DoWithRetry(ctx, p.client(), req, 0)
	if err != nil {
		return nil, fmt.Errorf("Brave API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Brave API returned HTTP %d", resp.StatusCode)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Brave response: %w", err)
	}

	var results []types.SearchResult
	for i, item := range br.Web.Results {
		if item.URL == "" {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		results = append(results, types.SearchResult{
			Title:        title,
			URL:          item.URL,
			Snippet:      item.Description,
			Provider:     p.Name(),
			ProviderRank: i,
		})
	}
	return results, nil
}

func (p *BraveProvider) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

// Brave API JSON structures.
type braveResponse struct {
	Web braveWeb `json:"web"`
}

type braveWeb struct {
	Results []braveResult `json:"results"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

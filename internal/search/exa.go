// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/design-research/internal/httputil"
	"github.com/pdiddy/design-research/pkg/types"
)

// exaAPIBase is the Exa search endpoint. Declared as a var so tests can
// substitute an httptest server.
var exaAPIBase = "https://api.exa.ai/search"

// ExaProvider queries the Exa semantic search API. It is the mandatory
// provider: the pipeline refuses to start without its key.
type ExaProvider struct {
	Client *http.Client
	APIKey string
}

// Name returns the provider identifier.
func (p *ExaProvider) Name() string { return "exa" }

// Search posts one variant to the Exa API and returns normalized results.
func (p *ExaProvider) Search(ctx context.Context, variant string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	limit := cfg.ExaResultsPerVariant
	if limit <= 0 {
		limit = 6
	}

	body, err := json.Marshal(exaRequest{Query: variant, NumResults: limit})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exaAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("x-api-key", p.APIKey)

	resp, err := httputil.DoWithRetry(ctx, p.client(), req, 0)
	if err != nil {
		return nil, fmt.Errorf("Exa API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Exa API returned HTTP %d", resp.StatusCode)
	}

	var er exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Exa response: %w", err)
	}

	var results []types.SearchResult
	for i, item := range er.Results {
		if item.URL == "" {
			continue
		}
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		snippet := item.Text
		if snippet == "" {
			snippet = item.Snippet
		}
		results = append(results, types.SearchResult{
			Title:        title,
			URL:          item.URL,
			Snippet:      snippet,
			Provider:     p.Name(),
			ProviderRank: i,
		})
	}
	return results, nil
}

func (p *ExaProvider) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

// Exa API JSON structures.
type exaRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Text    string `json:"text"`
	Snippet string `json:"snippet"`
}

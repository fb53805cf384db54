// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/pdiddy/design-research/internal/httputil"
	"github.com/pdiddy/design-research/pkg/types"
)

// readerAPIBase is the reader-proxy endpoint returning cleaned text for a
// target URL. Declared as a var so tests can substitute an httptest server.
var readerAPIBase = "https://r.jina.ai"

// WebFetcher implements Fetcher over HTTP. Text goes through the reader
// proxy with a local readability fallback; markup is fetched directly with
// the proxy as a fallback for bot-blocked hosts.
type WebFetcher struct {
	Client *http.Client
	Config types.HTTPConfig
}

// FetchText returns cleaned readable text for a URL. It prefers the reader
// proxy; when the proxy fails it falls back to fetching the page directly
// and running readability extraction locally.
func (f *WebFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	text, proxyErr := f.get(ctx, readerAPIBase+"/"+pageURL)
	if proxyErr == nil {
		return text, nil
	}

	markup, directErr := f.get(ctx, pageURL)
	if directErr != nil {
		return "", fmt.Errorf("reader proxy: %v; direct fetch: %w", proxyErr, directErr)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing page URL: %w", err)
	}
	article, err := readability.FromReader(strings.NewReader(markup), parsed)
	if err != nil {
		return "", fmt.Errorf("readability extraction: %w", err)
	}
	return article.TextContent, nil
}

// FetchHTML returns raw markup for a URL. Bot-blocking status codes trigger
// one fallback through the reader proxy.
func (f *WebFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	markup, err := f.get(ctx, pageURL)
	if err == nil {
		return markup, nil
	}
	if !isBotBlocked(err) {
		return "", err
	}
	markup, proxyErr := f.get(ctx, readerAPIBase+"/"+pageURL)
	if proxyErr != nil {
		return "", fmt.Errorf("direct fetch: %v; reader proxy: %w", err, proxyErr)
	}
	return markup, nil
}

// statusError distinguishes HTTP status failures so FetchHTML can decide
// whether the proxy fallback applies.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.url, e.code)
}

func isBotBlocked(err error) bool {
	se, ok := err.(*statusError)
	if !ok {
		return false
	}
	switch se.code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

func (f *WebFetcher) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client(), req, 1)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, url: rawURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}

func (f *WebFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

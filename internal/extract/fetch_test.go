// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/design-research/pkg/types"
)

func testHTTPCfg() types.HTTPConfig {
	return types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"}
}

func TestFetchTextUsesReaderProxy(t *testing.T) {
	var capturedPath string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		fmt.Fprint(w, "readable text")
	}))
	defer proxy.Close()

	old := readerAPIBase
	readerAPIBase = proxy.URL
	defer func() { readerAPIBase = old }()

	f := &WebFetcher{Client: proxy.Client(), Config: testHTTPCfg()}
	text, err := f.FetchText(context.Background(), "https://target.example/page")
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if text != "readable text" {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(capturedPath, "target.example") {
		t.Errorf("proxy path = %q, want target URL embedded", capturedPath)
	}
}

func TestFetchTextFallsBackToReadability(t *testing.T) {
	// Proxy is down; direct fetch serves an article page.
	article := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>T</title></head><body><article>
			<h1>Heading</h1>
			<p>Readable paragraph one with enough words to satisfy extraction heuristics.</p>
			<p>Readable paragraph two with enough words to satisfy extraction heuristics.</p>
			</article></body></html>`)
	}))
	defer article.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	old := readerAPIBase
	readerAPIBase = broken.URL
	defer func() { readerAPIBase = old }()

	f := &WebFetcher{Client: article.Client(), Config: testHTTPCfg()}
	text, err := f.FetchText(context.Background(), article.URL)
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if !strings.Contains(text, "Readable paragraph one") {
		t.Errorf("readability fallback text = %q", text)
	}
}

func TestFetchHTMLDirect(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>markup</body></html>")
	}))
	defer page.Close()

	f := &WebFetcher{Client: page.Client(), Config: testHTTPCfg()}
	markup, err := f.FetchHTML(context.Background(), page.URL)
	if err != nil {
		t.Fatalf("FetchHTML: %v", err)
	}
	if !strings.Contains(markup, "markup") {
		t.Errorf("markup = %q", markup)
	}
}

func TestFetchHTMLProxyFallbackOnForbidden(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer blocked.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>via proxy</html>")
	}))
	defer proxy.Close()

	old := readerAPIBase
	readerAPIBase = proxy.URL
	defer func() { readerAPIBase = old }()

	f := &WebFetcher{Client: blocked.Client(), Config: testHTTPCfg()}
	markup, err := f.FetchHTML(context.Background(), blocked.URL)
	if err != nil {
		t.Fatalf("FetchHTML: %v", err)
	}
	if !strings.Contains(markup, "via proxy") {
		t.Errorf("markup = %q, want proxy response", markup)
	}
}

func TestFetchHTMLNoFallbackOnServerError(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	f := &WebFetcher{Client: failing.Client(), Config: testHTTPCfg()}
	if _, err := f.FetchHTML(context.Background(), failing.URL); err == nil {
		t.Error("expected error on HTTP 500 without proxy fallback")
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Image candidate heuristics. Meta-declared images (Open Graph, Twitter
// card) are trusted without dimensions; inline <img> tags must declare a
// minimum visible size to qualify.
const (
	minImageDimension = 120
	maxInlineImages   = 10
)

var allowedImageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

var blockedImageSubstrings = []string{
	"logo", "favicon", "sprite", "icon", "avatar", "badge", "masthead", "placeholder",
}

// skipImageDomains are documentation hosts whose social-card images are
// boilerplate rather than representative screenshots.
var skipImageDomains = []string{
	"developer.mozilla.org", "w3.org", "web.dev",
}

// metaImageSelectors lists image sources in priority order: Open Graph
// first, then Twitter card, then the legacy image_src link.
var metaImageSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image:secure_url"]`, "content"},
	{`meta[property="og:image"]`, "content"},
	{`meta[name="og:image"]`, "content"},
	{`meta[property="twitter:image"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// PrimaryImage derives a representative image URL from page markup.
// Priority: og:image meta, Twitter card meta, first inline <img> meeting the
// minimum-size heuristic. Returns an absolute URL, or "" when no suitable
// candidate exists.
func PrimaryImage(markup, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	for _, m := range metaImageSelectors {
		value, ok := doc.Find(m.selector).First().Attr(m.attr)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		candidate := absolutize(pageURL, strings.TrimSpace(value))
		if candidate != "" && !blocked(candidate) {
			return candidate
		}
	}

	var found string
	doc.Find("img[src]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxInlineImages {
			return false
		}
		src, _ := sel.Attr("src")
		if strings.TrimSpace(src) == "" {
			return true
		}
		candidate := absolutize(pageURL, strings.TrimSpace(src))
		if candidate == "" || blocked(candidate) {
			return true
		}
		// Inline images qualify only with a declared visible size.
		if !meetsMinDimension(sel) {
			return true
		}
		found = candidate
		return false
	})
	return found
}

// meetsMinDimension reports whether an <img> declares a width or height of
// at least minImageDimension pixels.
func meetsMinDimension(sel *goquery.Selection) bool {
	for _, attr := range []string{"width", "height"} {
		if v, ok := sel.Attr(attr); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= minImageDimension {
				return true
			}
		}
	}
	return false
}

// blocked filters out candidates by domain, substring blocklist, and
// extension allowlist.
func blocked(imageURL string) bool {
	lower := strings.ToLower(imageURL)

	if host := hostOf(lower); host != "" {
		for _, d := range skipImageDomains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return true
			}
		}
	}
	for _, sub := range blockedImageSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	for _, ext := range allowedImageExts {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// absolutize resolves a possibly relative image reference against the page URL.
func absolutize(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(r).String()
}

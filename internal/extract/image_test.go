// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "testing"

func TestPrimaryImagePriority(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name: "og:image wins over twitter and img",
			markup: `<html><head>
				<meta property="og:image" content="https://a.com/og.png">
				<meta name="twitter:image" content="https://a.com/tw.png">
				</head><body><img src="https://a.com/inline.png" width="800"></body></html>`,
			want: "https://a.com/og.png",
		},
		{
			name: "secure og:image wins over plain og:image",
			markup: `<html><head>
				<meta property="og:image" content="http://a.com/plain.png">
				<meta property="og:image:secure_url" content="https://a.com/secure.png">
				</head></html>`,
			want: "https://a.com/secure.png",
		},
		{
			name: "twitter card when no og:image",
			markup: `<html><head>
				<meta name="twitter:image" content="https://a.com/tw.jpg">
				</head></html>`,
			want: "https://a.com/tw.jpg",
		},
		{
			name: "first sufficiently large img as fallback",
			markup: `<html><body>
				<img src="https://a.com/tiny.png" width="40">
				<img src="https://a.com/big.png" width="640" height="480">
				</body></html>`,
			want: "https://a.com/big.png",
		},
		{
			name: "img without declared size rejected",
			markup: `<html><body>
				<img src="https://a.com/mystery.png">
				</body></html>`,
			want: "",
		},
		{
			name:   "no candidates",
			markup: `<html><body><p>plain text</p></body></html>`,
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrimaryImage(tt.markup, "https://a.com/page")
			if got != tt.want {
				t.Errorf("PrimaryImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimaryImageBlocklist(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "logo substring blocked",
			markup: `<html><head><meta property="og:image" content="https://a.com/site-logo.png"></head></html>`,
			want:   "",
		},
		{
			name:   "disallowed extension blocked",
			markup: `<html><head><meta property="og:image" content="https://a.com/card.svg"></head></html>`,
			want:   "",
		},
		{
			name:   "skip-image domain blocked",
			markup: `<html><head><meta property="og:image" content="https://developer.mozilla.org/social.png"></head></html>`,
			want:   "",
		},
		{
			name: "blocked meta falls through to inline img",
			markup: `<html><head><meta property="og:image" content="https://a.com/favicon.png"></head>
				<body><img src="https://a.com/screen.webp" height="600"></body></html>`,
			want: "https://a.com/screen.webp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrimaryImage(tt.markup, "https://a.com/page")
			if got != tt.want {
				t.Errorf("PrimaryImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimaryImageAbsolutizesRelativeRefs(t *testing.T) {
	markup := `<html><head><meta property="og:image" content="/assets/hero.jpg"></head></html>`
	got := PrimaryImage(markup, "https://example.com/articles/post")
	want := "https://example.com/assets/hero.jpg"
	if got != want {
		t.Errorf("PrimaryImage = %q, want %q", got, want)
	}
}

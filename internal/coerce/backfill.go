// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coerce

import (
	"github.com/pdiddy/design-research/internal/search"
	"github.com/pdiddy/design-research/pkg/types"
)

// BackfillImages fills the image field of each example that lacks one,
// using the extraction record for the example's normalized URL. Examples
// with no matching record, or whose record carried no image, are left
// untouched.
func BackfillImages(resp *types.ResearchResponse, index map[string]types.ExtractionRecord) {
	for i := range resp.Examples {
		ex := &resp.Examples[i]
		if ex.ImageURL != "" || ex.URL == "" {
			continue
		}
		rec, ok := index[search.NormalizeURL(ex.URL)]
		if !ok || rec.ImageURL == "" {
			continue
		}
		ex.ImageURL = rec.ImageURL
	}
}

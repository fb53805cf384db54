// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synth

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/design-research/pkg/types"
)

// responseSchema describes the required output object. Kept as literal text
// so the generator sees exactly the contract the validator enforces.
const responseSchema = `{
  "query_classification": "pattern | accessibility | inspiration | feasibility",
  "summary": "string (required)",
  "best_practices": ["string", "..."],
  "examples": [{"title": "string", "url": "string", "description": "string|null", "image_url": "string|null", "source_domain": "string|null"}],
  "considerations": {"tradeoffs": ["string"], "accessibility": ["string"], "performance": ["string"], "browser_support": ["string"]},
  "sources": [{"title": "string", "url": "string", "publisher": "string|null", "publish_date": "string|null", "relevance_score": "number|null"}]
}`

// synthesisPromptTmpl is the grounded synthesis prompt. It lists ranked
// sources, length-capped excerpts, the target schema, and the citation
// contract: every [n] token must map to sources[n-1].url.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`You will produce a single JSON object only. No markdown or prose.
The JSON must follow the response schema shown below.

Question: {{.Question}}
Query classification: {{.Class}}

Ranked sources (title | url):
{{range .Sources}}- {{.Title}} | {{.URL}}
{{end}}
Source content excerpts (use these for grounding; do not fabricate):
{{range .Excerpts}}- {{.Title}} | {{.URL}}
{{.Text}}

{{end}}Response schema:
{{.Schema}}

Instructions:
- Synthesize, don't summarize.
- Provide 5-10 best_practices, actionable and specific.
- Include 3-6 examples with working URLs; images optional.
- considerations must include tradeoffs, accessibility (cite WCAG where relevant), performance, browser_support.
- When citing accessibility, include exact WCAG 2.2 criterion IDs where applicable.
- If an example has a known image, set examples[].image_url to that URL; otherwise null.
- Ensure every citation in text maps to a listed source URL.
- Include inline bracket citations like [n] that reference the sources list (1-based index): [n] means sources[n-1].url.
- Add citations after claims (stats, dates, support, quotes); do not invent indices.
- Output strictly valid JSON. Do not wrap in code fences.`))

type promptSource struct {
	Title string
	URL   string
}

type promptExcerpt struct {
	Title string
	URL   string
	Text  string
}

// BuildPrompt renders the synthesis prompt from the enhanced query, the
// ranked sources, and the extraction records. Each excerpt is hard-capped at
// the configured character budget.
func BuildPrompt(query types.Query, ranked []types.RankedResult, records []types.ExtractionRecord, cfg types.SynthesisConfig) (string, error) {
	maxChars := cfg.ExcerptMaxChars
	if maxChars <= 0 {
		maxChars = 1200
	}

	var sources []promptSource
	for _, r := range ranked {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		sources = append(sources, promptSource{Title: title, URL: r.URL})
	}

	var excerpts []promptExcerpt
	for _, rec := range records {
		if !rec.TextOK || rec.Text == "" {
			continue
		}
		title := rec.Title
		if title == "" {
			title = "Untitled"
		}
		excerpts = append(excerpts, promptExcerpt{
			Title: title,
			URL:   rec.URL,
			Text:  truncate(rec.Text, maxChars),
		})
	}

	data := struct {
		Question string
		Class    types.Classification
		Sources  []promptSource
		Excerpts []promptExcerpt
		Schema   string
	}{
		Question: query.Question,
		Class:    query.Class,
		Sources:  sources,
		Excerpts: excerpts,
		Schema:   responseSchema,
	}

	var buf bytes.Buffer
	if err := synthesisPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering synthesis prompt: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	return s[:maxChars-3] + "..."
}

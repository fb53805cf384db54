// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package coerce

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/design-research/pkg/types"
)

// considerationKeys are the required sub-lists of the considerations object.
var considerationKeys = []string{"tradeoffs", "accessibility", "performance", "browser_support"}

// Validate checks a parsed object field-by-field against the response
// contract, collecting every violation before failing. On success it decodes
// the object into a ResearchResponse. Missing optional fields stay at their
// zero values; nothing is fabricated to force validity.
func Validate(obj map[string]any) (*types.ResearchResponse, error) {
	var violations []string

	if s, ok := obj["summary"].(string); !ok || s == "" {
		violations = append(violations, "summary: required non-empty string")
	}

	if v, present := obj["best_practices"]; present {
		if _, ok := v.([]any); !ok {
			violations = append(violations, "best_practices: must be a list of strings")
		} else {
			violations = append(violations, checkStringList("best_practices", v.([]any))...)
		}
	} else {
		violations = append(violations, "best_practices: required list is missing")
	}

	if v, present := obj["examples"]; present {
		items, ok := v.([]any)
		if !ok {
			violations = append(violations, "examples: must be a list of objects")
		} else {
			for i, item := range items {
				ex, ok := item.(map[string]any)
				if !ok {
					violations = append(violations, fmt.Sprintf("examples[%d]: must be an object", i))
					continue
				}
				if s, ok := ex["url"].(string); !ok || s == "" {
					violations = append(violations, fmt.Sprintf("examples[%d].url: required non-empty string", i))
				}
				if s, ok := ex["title"].(string); !ok || s == "" {
					violations = append(violations, fmt.Sprintf("examples[%d].title: required non-empty string", i))
				}
			}
		}
	}

	if v, present := obj["considerations"]; present {
		cons, ok := v.(map[string]any)
		if !ok {
			violations = append(violations, "considerations: must be an object")
		} else {
			for _, key := range considerationKeys {
				sub, present := cons[key]
				if !present || sub == nil {
					continue // absent list decodes to empty, which is valid
				}
				items, ok := sub.([]any)
				if !ok {
					violations = append(violations, fmt.Sprintf("considerations.%s: must be a list of strings", key))
					continue
				}
				violations = append(violations, checkStringList("considerations."+key, items)...)
			}
		}
	} else {
		violations = append(violations, "considerations: required object is missing")
	}

	if v, present := obj["sources"]; present {
		items, ok := v.([]any)
		if !ok {
			violations = append(violations, "sources: must be a list of objects")
		} else {
			for i, item := range items {
				src, ok := item.(map[string]any)
				if !ok {
					violations = append(violations, fmt.Sprintf("sources[%d]: must be an object", i))
					continue
				}
				if s, ok := src["url"].(string); !ok || s == "" {
					violations = append(violations, fmt.Sprintf("sources[%d].url: required non-empty string", i))
				}
			}
		}
	} else {
		violations = append(violations, "sources: required list is missing")
	}

	if len(violations) > 0 {
		return nil, &types.SchemaError{Violations: violations}
	}

	// Generators sometimes emit null for optional string fields; drop nulls
	// so strict decoding into string-typed fields succeeds.
	scrubNulls(obj)

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, &types.SchemaError{Violations: []string{"object: not re-encodable: " + err.Error()}}
	}
	var resp types.ResearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &types.SchemaError{Violations: []string{"object: does not decode into response shape: " + err.Error()}}
	}
	return &resp, nil
}

func checkStringList(field string, items []any) []string {
	var violations []string
	for i, item := range items {
		if _, ok := item.(string); !ok {
			violations = append(violations, fmt.Sprintf("%s[%d]: must be a string", field, i))
		}
	}
	return violations
}

func scrubNulls(obj map[string]any) {
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
			delete(obj, k)
		case map[string]any:
			scrubNulls(val)
		case []any:
			for _, item := range val {
				if m, ok := item.(map[string]any); ok {
					scrubNulls(m)
				}
			}
		}
	}
}

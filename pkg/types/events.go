// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Stage names emitted by the pipeline, in execution order.
const (
	StageEnhance    = "enhance"
	StageSearch     = "search"
	StageRank       = "rank"
	StageExtract    = "extract"
	StageSynthesize = "synthesize"
	StageValidate   = "validate"
	StageDone       = "done"
)

// StageStatus describes the state reported by a StageEvent.
type StageStatus string

const (
	StatusStarted   StageStatus = "started"
	StatusProgress  StageStatus = "progress"
	StatusCompleted StageStatus = "completed"
	StatusWarning   StageStatus = "warning"
	StatusFailed    StageStatus = "failed"
)

// StageEvent is a progress notification for one pipeline stage. The pipeline
// emits events; rendering belongs entirely to the caller.
type StageEvent struct {
	// Stage is one of the Stage* constants.
	Stage string `json:"stage" yaml:"stage"`

	// Status is the state being reported.
	Status StageStatus `json:"status" yaml:"status"`

	// Time is when the event was emitted.
	Time time.Time `json:"time" yaml:"time"`

	// Fraction is overall pipeline progress in [0,1], when known.
	Fraction float64 `json:"fraction" yaml:"fraction"`

	// Detail is a short human-readable note (counts, warnings, errors).
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Observer receives stage events. Implementations must be fast and must not
// block; the pipeline calls them inline.
type Observer func(StageEvent)

package model

import "time"

// OutcomeStatus is what happened to one candidate field during a pass.
type OutcomeStatus string

const (
	OutcomeFilled        OutcomeStatus = "filled"
	OutcomeAlreadyFilled OutcomeStatus = "already_filled"
	OutcomeLowConfidence OutcomeStatus = "low_confidence"
	OutcomeNoValue       OutcomeStatus = "no_value"
	OutcomeInjectFailed  OutcomeStatus = "inject_failed"
)

// FieldOutcome records the per-field result of one fill pass. Values are
// not echoed back in full because reports may travel over the API surface.
type FieldOutcome struct {
	Identity   string        `json:"identity"`
	Field      string        `json:"field,omitempty"`
	Confidence float64       `json:"confidence"`
	Status     OutcomeStatus `json:"status"`
}

// FormStateChunk is one change in the before/after form-state diff.
type FormStateChunk struct {
	Type    string `json:"type"` // "added", "removed", "unchanged"
	Content string `json:"content,omitempty"`
}

// FillReport summarizes one full-page fill pass: how many fields were
// written, the per-field outcomes, and a diff of the serialized form state
// before and after the pass.
type FillReport struct {
	URL      string           `json:"url,omitempty"`
	Pass     int              `json:"pass"`
	Filled   int              `json:"filled"`
	Scanned  int              `json:"scanned"`
	Outcomes []FieldOutcome   `json:"outcomes,omitempty"`
	Diff     []FormStateChunk `json:"diff,omitempty"`

	// Site is the platform context the pass ran under.
	Site SiteContext `json:"site"`

	Timestamp time.Time `json:"timestamp"`
}

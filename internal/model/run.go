package model

import "time"

// SittingRun accumulates the records of one sitting while its pipeline runs.
// A SittingRun is owned by exactly one pipeline; nothing in it is shared
// with other sittings.
type SittingRun struct {
	Sitting Sitting

	// Minutes are the records read from the vote results tables.
	Minutes []Vote

	// RollCalls are the records read from the roll-call results.
	RollCalls []Vote

	// Dedup holds the rows already emitted for this sitting.
	Dedup *DedupSet `json:"-"`

	// Texts are the minutes paragraphs, one entry per day that had minutes.
	Texts []MinutesText

	// Votes is the reconciled output.
	Votes []Vote

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// SkippedDays lists days without published results.
	SkippedDays []time.Time

	// Error is the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for reports.
	ErrorMessage string `json:"error,omitempty"`
}

// NewSittingRun creates an empty run for the sitting.
func NewSittingRun(s Sitting) *SittingRun {
	return &SittingRun{Sitting: s, Dedup: NewDedupSet()}
}

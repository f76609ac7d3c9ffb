package report

import (
	"time"

	"github.com/nao1215/quivotequoi/internal/model"
)

// SittingSummary counts the records of one sitting.
type SittingSummary struct {
	Sitting      string `json:"sitting"`
	Days         int    `json:"days"`
	SkippedDays  int    `json:"skipped_days"`
	Minutes      int    `json:"minutes"`
	RollCalls    int    `json:"roll_calls"`
	Votes        int    `json:"votes"`
	Merged       int    `json:"merged"`
	MinutesOnly  int    `json:"minutes_only"`
	RollCallOnly int    `json:"roll_call_only"`
	Synthetic    int    `json:"synthetic"`
	Error        string `json:"error,omitempty"`
}

// Summary describes one extraction run.
type Summary struct {
	RunID       string           `json:"run_id"`
	Version     string           `json:"version"`
	GeneratedAt time.Time        `json:"generated_at"`
	Sittings    []SittingSummary `json:"sittings"`
}

// NewSummary summarizes the runs of a batch. Runs that never started
// (nil) are left out.
func NewSummary(runID, version string, runs []*model.SittingRun) *Summary {
	s := &Summary{
		RunID:       runID,
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		Sittings:    make([]SittingSummary, 0, len(runs)),
	}
	for _, run := range runs {
		if run == nil {
			continue
		}
		ss := SittingSummary{
			Sitting:     run.Sitting.String(),
			Days:        len(run.Sitting.VoteDays()),
			SkippedDays: len(run.SkippedDays),
			Minutes:     len(run.Minutes),
			RollCalls:   len(run.RollCalls),
			Votes:       len(run.Votes),
			Error:       run.ErrorMessage,
		}
		for _, v := range run.Votes {
			switch v.Source {
			case model.SourceMerged:
				ss.Merged++
			case model.SourceMinutes:
				ss.MinutesOnly++
			case model.SourceRollCall:
				ss.RollCallOnly++
			case model.SourceSynthetic:
				ss.Synthetic++
			}
		}
		s.Sittings = append(s.Sittings, ss)
	}
	return s
}

// Totals adds up the counts of all sittings.
func (s *Summary) Totals() SittingSummary {
	var t SittingSummary
	for _, ss := range s.Sittings {
		t.Days += ss.Days
		t.SkippedDays += ss.SkippedDays
		t.Minutes += ss.Minutes
		t.RollCalls += ss.RollCalls
		t.Votes += ss.Votes
		t.Merged += ss.Merged
		t.MinutesOnly += ss.MinutesOnly
		t.RollCallOnly += ss.RollCallOnly
		t.Synthetic += ss.Synthetic
	}
	return t
}

// Failed returns the number of sittings that ended with an error.
func (s *Summary) Failed() int {
	n := 0
	for _, ss := range s.Sittings {
		if ss.Error != "" {
			n++
		}
	}
	return n
}

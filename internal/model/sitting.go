package model

import "time"

// Sitting is a plenary session identified by its first day.
// Votes cast on any of Days belong to the sitting.
type Sitting struct {
	Date time.Time
	Days []time.Time
}

// NewSitting returns a one-day sitting.
func NewSitting(date time.Time) Sitting {
	return Sitting{Date: date, Days: []time.Time{date}}
}

// VoteDays returns Days, or the sitting date alone when Days is empty.
func (s Sitting) VoteDays() []time.Time {
	if len(s.Days) == 0 {
		return []time.Time{s.Date}
	}
	return s.Days
}

// String returns the sitting date in YYYY-MM-DD form.
func (s Sitting) String() string {
	return s.Date.Format(time.DateOnly)
}

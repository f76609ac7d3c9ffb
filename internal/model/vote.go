package model

import (
	"strconv"
	"strings"
	"time"
)

// VoteType is the taxonomy a vote subject is classified into.
type VoteType string

const (
	// VoteTypeRejection is a motion to reject a text.
	VoteTypeRejection VoteType = "REJECTION"
	// VoteTypeAmendment is a vote on a numbered amendment.
	VoteTypeAmendment VoteType = "AMENDMENT"
	// VoteTypeReturn is a referral back to committee.
	VoteTypeReturn VoteType = "RETURN"
	// VoteTypeAdoption is a vote on a whole text.
	VoteTypeAdoption VoteType = "ADOPTION"
	// VoteTypeIgnore marks a vote no rule recognised. Such records are
	// dropped before reconciliation.
	VoteTypeIgnore VoteType = "IGNORE"
)

// Result is the outcome of a vote.
type Result string

const (
	// ResultAdopted is printed as "+" in the minutes.
	ResultAdopted Result = "ADOPTED"
	// ResultRejected is printed as "-" or "—".
	ResultRejected Result = "REJECTED"
	// ResultLapsed is printed as "↓".
	ResultLapsed Result = "LAPSED"
)

// Position is how a member voted in a roll-call vote.
type Position string

const (
	// PositionFor is a vote in favour.
	PositionFor Position = "FOR"
	// PositionAgainst is a vote against.
	PositionAgainst Position = "AGAINST"
	// PositionAbstention is an abstention.
	PositionAbstention Position = "ABSTENTION"
)

// Source records where a vote record came from.
type Source string

const (
	// SourceMinutes is a record read from the vote results table of the minutes.
	SourceMinutes Source = "minutes"
	// SourceRollCall is a record read from the roll-call vote results.
	SourceRollCall Source = "rollcall"
	// SourceMerged is a minutes record joined with its roll-call counterpart.
	SourceMerged Source = "merged"
	// SourceSynthetic is a referral vote inferred from the minutes text.
	SourceSynthetic Source = "synthetic"
)

// Tally holds the for, against and abstention counts of a vote.
type Tally [3]int

// String renders the tally as "for,against,abstention".
func (t Tally) String() string {
	return strconv.Itoa(t[0]) + "," + strconv.Itoa(t[1]) + "," + strconv.Itoa(t[2])
}

// TallyFrom builds a Tally from the first three values of counts.
// It returns nil when fewer than three counts are available.
func TallyFrom(counts []int) *Tally {
	if len(counts) < 3 {
		return nil
	}
	t := Tally{counts[0], counts[1], counts[2]}
	return &t
}

// Vote is one vote line. Minutes-sourced and roll-call-sourced records share
// this shape; fields a source does not provide stay at their zero value.
type Vote struct {
	// ID is the roll-call identifier. Empty for minutes-only records.
	ID string `json:"id,omitempty"`

	// SittingDate is the first day of the plenary session.
	SittingDate time.Time `json:"-"`

	// Date is the day the vote took place.
	Date time.Time `json:"date"`

	// Doc is the reference of the voted document.
	Doc string `json:"doc"`

	// Procedure is the procedure reference, when the source printed one.
	Procedure *string `json:"ref,omitempty"`

	// Subject is the normalized subject from the minutes.
	Subject string `json:"subject,omitempty"`

	// SubjectRollCall is the description printed on the roll-call record.
	SubjectRollCall string `json:"subject_rcv,omitempty"`

	// Author is who tabled the amendment or motion.
	Author *Author `json:"author,omitempty"`

	Type VoteType `json:"type"`

	// Amendment is the amendment token (number, list or range).
	Amendment *string `json:"amendment,omitempty"`

	// Split is the part number of a split vote.
	Split *string `json:"split,omitempty"`

	// RollCall reports whether members' individual positions were recorded.
	RollCall bool `json:"rcv"`

	Result Result `json:"result,omitempty"`

	Tally *Tally `json:"votes,omitempty"`

	// Positions maps member ids to their position.
	Positions map[int]Position `json:"positions,omitempty"`

	// URL is the primary source document.
	URL string `json:"url,omitempty"`

	// RollCallURL is the roll-call results document.
	RollCallURL string `json:"url_rcv,omitempty"`

	Source Source `json:"source"`
}

// Key returns the join key of the vote.
func (v *Vote) Key() JoinKey {
	k := JoinKey{
		SittingDate: v.SittingDate.Format(time.DateOnly),
		Doc:         v.Doc,
		Type:        v.Type,
	}
	if v.Amendment != nil {
		k.HasAmendment = true
		k.Amendment = *v.Amendment
	}
	if v.Split != nil {
		k.HasSplit = true
		k.Split = *v.Split
	}
	if v.Tally != nil {
		k.HasTally = true
		k.Tally = *v.Tally
	}
	return k
}

// JoinKey identifies a vote within a sitting. A minutes record and a
// roll-call record describing the same vote share the same JoinKey.
//
// Nullable components carry an explicit presence flag so that an absent
// amendment never collides with an empty one. The struct is comparable and
// can be used directly as a map key.
type JoinKey struct {
	SittingDate  string
	Doc          string
	HasAmendment bool
	Amendment    string
	HasSplit     bool
	Split        string
	Type         VoteType
	HasTally     bool
	Tally        Tally
}

// String renders the key for error messages.
func (k JoinKey) String() string {
	parts := []string{k.SittingDate, k.Doc, "-", "-", string(k.Type), "-"}
	if k.HasAmendment {
		parts[2] = k.Amendment
	}
	if k.HasSplit {
		parts[3] = k.Split
	}
	if k.HasTally {
		parts[5] = "[" + k.Tally.String() + "]"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

package reconcile

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/nao1215/quivotequoi/internal/model"
)

// Default markers of a referral in the minutes text.
const (
	DefaultReturnMarker   = "renvoi en commission"
	DefaultApprovedMarker = "approuvé"
)

// Reconciler merges the vote records of a sitting.
type Reconciler struct {
	returnMarker   string
	approvedMarker string
	logger         *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithReturnMarker sets the text announcing a referral to committee.
func WithReturnMarker(marker string) Option {
	return func(r *Reconciler) {
		r.returnMarker = strings.ToLower(marker)
	}
}

// WithApprovedMarker sets the text announcing that a referral was approved.
func WithApprovedMarker(marker string) Option {
	return func(r *Reconciler) {
		r.approvedMarker = strings.ToLower(marker)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		returnMarker:   DefaultReturnMarker,
		approvedMarker: DefaultApprovedMarker,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile merges the minutes and roll-call records of sitting and adds
// the referrals found in texts.
//
// IGNORE records are dropped first. A join key repeated within either list
// returns a *DuplicateKeyError and no records. The output lists minutes
// records in input order, each merged with its roll-call counterpart when
// one exists, followed by the unmatched roll-call records in input order and
// finally the synthetic referrals. No two output records share a join key.
func (r *Reconciler) Reconcile(sitting model.Sitting, minutes, rollCalls []model.Vote, texts []model.MinutesText) ([]model.Vote, error) {
	minutes = withoutIgnored(minutes)
	rollCalls = withoutIgnored(rollCalls)

	var dups []Duplicate
	dups = append(dups, duplicates(model.SourceMinutes, minutes)...)
	dups = append(dups, duplicates(model.SourceRollCall, rollCalls)...)
	if len(dups) > 0 {
		return nil, &DuplicateKeyError{Sitting: sitting.String(), Duplicates: dups}
	}

	index := make(map[model.JoinKey]int, len(rollCalls))
	for i := range rollCalls {
		index[rollCalls[i].Key()] = i
	}

	out := make([]model.Vote, 0, len(minutes)+len(rollCalls))
	matched := make([]bool, len(rollCalls))
	for _, m := range minutes {
		i, ok := index[m.Key()]
		if !ok {
			out = append(out, m)
			continue
		}
		matched[i] = true
		out = append(out, merge(m, rollCalls[i]))
	}
	for i, rc := range rollCalls {
		if !matched[i] {
			out = append(out, rc)
		}
	}

	merged := len(out)
	out = r.addReturns(sitting, out, texts)
	r.logger.Debug("reconciled sitting",
		"sitting", sitting.String(),
		"minutes", len(minutes),
		"roll_calls", len(rollCalls),
		"output", merged,
		"synthetic", len(out)-merged,
	)

	if dups := duplicates(model.SourceMerged, out); len(dups) > 0 {
		return nil, &DuplicateKeyError{Sitting: sitting.String(), Duplicates: dups}
	}
	return out, nil
}

// merge combines a minutes record with its roll-call counterpart. Minutes
// fields win except for the date, which the roll-call record states per vote.
func merge(m, rc model.Vote) model.Vote {
	out := m
	out.ID = rc.ID
	if !rc.Date.IsZero() {
		out.Date = rc.Date
	}
	if out.Procedure == nil {
		out.Procedure = rc.Procedure
	}
	if out.Author == nil {
		out.Author = rc.Author
	}
	out.SubjectRollCall = rc.SubjectRollCall
	out.RollCall = m.RollCall || rc.RollCall
	if out.Tally == nil {
		out.Tally = rc.Tally
	}
	if rc.Positions != nil {
		out.Positions = rc.Positions
	}
	if out.Result == "" {
		out.Result = rc.Result
	}
	out.RollCallURL = rc.RollCallURL
	out.Source = model.SourceMerged
	return out
}

func withoutIgnored(votes []model.Vote) []model.Vote {
	out := make([]model.Vote, 0, len(votes))
	for _, v := range votes {
		if v.Type != model.VoteTypeIgnore {
			out = append(out, v)
		}
	}
	return out
}

// duplicates returns the keys occurring more than once, in order of first
// occurrence.
func duplicates(source model.Source, votes []model.Vote) []Duplicate {
	groups := make(map[model.JoinKey][]int, len(votes))
	var order []model.JoinKey
	for i := range votes {
		k := votes[i].Key()
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	var dups []Duplicate
	for _, k := range order {
		idx := groups[k]
		if len(idx) < 2 {
			continue
		}
		d := Duplicate{Source: source, Key: k}
		for _, i := range idx {
			d.Records = append(d.Records, votes[i])
		}
		dups = append(dups, d)
	}
	return dups
}

// docsOf returns the documents of votes in order of first appearance.
func docsOf(votes []model.Vote) []string {
	var docs []string
	for _, v := range votes {
		if v.Doc != "" && !slices.Contains(docs, v.Doc) {
			docs = append(docs, v.Doc)
		}
	}
	return docs
}

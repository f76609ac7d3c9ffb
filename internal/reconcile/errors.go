package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/quivotequoi/internal/model"
)

// ErrDuplicateJoinKey is wrapped by DuplicateKeyError.
var ErrDuplicateJoinKey = errors.New("duplicate join key")

// Duplicate is one join key found more than once in an input list.
type Duplicate struct {
	// Source is the list the key repeats in.
	Source model.Source

	Key model.JoinKey

	// Records are all records of the list sharing Key, in input order.
	Records []model.Vote
}

// DuplicateKeyError reports every repeated join key of a sitting. The
// records are kept so they can be inspected by hand.
type DuplicateKeyError struct {
	Sitting    string
	Duplicates []Duplicate
}

// Error implements error.
func (e *DuplicateKeyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: sitting %s:", ErrDuplicateJoinKey, e.Sitting)
	for _, d := range e.Duplicates {
		fmt.Fprintf(&b, " %s%s x%d", d.Source, d.Key, len(d.Records))
	}
	return b.String()
}

// Unwrap returns ErrDuplicateJoinKey.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateJoinKey
}

// Rows renders the offending records one per line for logs.
func (e *DuplicateKeyError) Rows() []string {
	var rows []string
	for _, d := range e.Duplicates {
		for _, v := range d.Records {
			rows = append(rows, fmt.Sprintf("%s %s subject=%q result=%s url=%s",
				d.Source, d.Key, firstNonEmpty(v.Subject, v.SubjectRollCall), v.Result, firstNonEmpty(v.URL, v.RollCallURL)))
		}
	}
	return rows
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

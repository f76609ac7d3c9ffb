package votes

import (
	"io"
	"time"

	"github.com/nao1215/quivotequoi/internal/model"
)

// Schema identifies the XML schema of a minutes results document.
type Schema int

const (
	// SchemaLegacy is the Vote.Results schema.
	SchemaLegacy Schema = iota
	// SchemaCurrent is the votes/vote/voting schema.
	SchemaCurrent
)

// DefaultCutoff is the first sitting day published in the current schema.
var DefaultCutoff = time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC)

// String returns the schema name.
func (s Schema) String() string {
	switch s {
	case SchemaLegacy:
		return "legacy"
	case SchemaCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// SchemaFor returns the schema of the results published for day.
// Days before cutoff use the legacy schema.
func SchemaFor(day, cutoff time.Time) Schema {
	if dateOnly(day).Before(dateOnly(cutoff)) {
		return SchemaLegacy
	}
	return SchemaCurrent
}

// MinutesParser reads minutes-sourced vote records.
type MinutesParser interface {
	Parse(pc *ParseContext, r io.Reader) ([]model.Vote, error)
}

// Parser returns the parser for the schema.
func (s Schema) Parser() MinutesParser {
	if s == SchemaLegacy {
		return LegacyParser{}
	}
	return CurrentParser{}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

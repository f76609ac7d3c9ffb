package model

import (
	"encoding/json"
	"strings"
)

// AuthorKind tags the variant held by an Author.
type AuthorKind string

const (
	// AuthorDeputees is a group of members tabling together.
	AuthorDeputees AuthorKind = "DEPUTEES"
	// AuthorCommission is the Commission or a parliamentary committee.
	AuthorCommission AuthorKind = "COMMISSION"
	// AuthorRapporteur is the rapporteur of the report.
	AuthorRapporteur AuthorKind = "RAPPORTEUR"
	// AuthorOriginal is the original text.
	AuthorOriginal AuthorKind = "ORIGINAL"
	// AuthorGroup is one or more political groups.
	AuthorGroup AuthorKind = "GROUP"
)

// Author is a tagged variant. Committee is only meaningful for
// AuthorCommission and Groups only for AuthorGroup.
type Author struct {
	Kind      AuthorKind
	Committee string
	Groups    []string
}

// String renders the author as "KIND" or "KIND:detail".
func (a Author) String() string {
	switch a.Kind {
	case AuthorCommission:
		if a.Committee != "" {
			return string(a.Kind) + ":" + a.Committee
		}
	case AuthorGroup:
		return string(a.Kind) + ":" + strings.Join(a.Groups, ",")
	}
	return string(a.Kind)
}

// MarshalJSON encodes the author as a tagged array, e.g. ["GROUP", ["PPE", "RE"]].
func (a Author) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AuthorCommission:
		var code *string
		if a.Committee != "" {
			code = &a.Committee
		}
		return json.Marshal([]any{a.Kind, code})
	case AuthorGroup:
		groups := a.Groups
		if groups == nil {
			groups = []string{}
		}
		return json.Marshal([]any{a.Kind, groups})
	default:
		return json.Marshal([]any{a.Kind})
	}
}

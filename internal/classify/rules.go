package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nao1215/quivotequoi/internal/model"
)

// Canonical subjects for adoption votes.
const (
	LabelResolution = "Proposition de résolution"
	LabelSingleVote = "Adoption du texte"
	LabelConsent    = "Procédure d'approbation"
	LabelCommission = "Proposition de la commission"
)

// Input is what the rules look at.
type Input struct {
	// Subject is the subject as printed.
	Subject string

	// Marker is the trimmed amendment column. Empty when absent.
	Marker string

	folded       string
	foldedMarker string
}

// NewInput prepares subject and marker for matching. A nil marker, or one
// printing "None", is absent.
func NewInput(subject string, marker *string) Input {
	in := Input{Subject: subject}
	if marker != nil {
		m := strings.TrimSpace(*marker)
		if m != "None" {
			in.Marker = m
		}
	}
	in.folded = fold(subject)
	in.foldedMarker = fold(in.Marker)
	return in
}

// Folded returns the case-folded subject.
func (in Input) Folded() string {
	return in.folded
}

var folder = cases.Fold()

// fold case-folds s and replaces typographic apostrophes.
func fold(s string) string {
	return strings.ReplaceAll(folder.String(s), "’", "'")
}

// Rule is one entry of the classification table.
type Rule struct {
	// Name identifies the rule in logs and tests.
	Name string

	// Match reports whether the rule applies.
	Match func(Input) bool

	// Type is the outcome. A rule with an empty Type is a pass-through:
	// it clears the marker and evaluation continues with the next rule.
	Type model.VoteType

	// Label replaces the subject when set.
	Label string

	// KeepMarker copies the marker to the amendment of the outcome.
	KeepMarker bool
}

var (
	notNumberedMarker  = regexp.MustCompile(`^§$|amendement oral|oral amendment|pc`)
	commissionProposal = regexp.MustCompile(`proposition de (la )?commis(s?i|si?)on|proposal (of|from) the commission`)
)

// DefaultRules is the classification table in priority order.
var DefaultRules = []Rule{
	{
		Name: "rejection",
		Match: func(in Input) bool {
			return strings.Contains(in.folded, "rejet") || strings.Contains(in.folded, "reject")
		},
		Type: model.VoteTypeRejection,
	},
	{
		// Section signs, oral amendments and compromise markers carry no
		// amendment number.
		Name: "unnumbered-marker",
		Match: func(in Input) bool {
			return in.Marker != "" && notNumberedMarker.MatchString(in.foldedMarker)
		},
	},
	{
		Name:       "amendment",
		Match:      func(in Input) bool { return in.Marker != "" },
		Type:       model.VoteTypeAmendment,
		KeepMarker: true,
	},
	{
		Name:  "referral",
		Match: func(in Input) bool { return strings.Contains(in.Subject, "renvoi") },
		Type:  model.VoteTypeReturn,
	},
	{
		Name:  "resolution",
		Match: func(in Input) bool { return strings.Contains(in.folded, "résolution") },
		Type:  model.VoteTypeAdoption,
		Label: LabelResolution,
	},
	{
		Name:  "single-vote",
		Match: func(in Input) bool { return strings.Contains(in.folded, "vote unique") },
		Type:  model.VoteTypeAdoption,
		Label: LabelSingleVote,
	},
	{
		Name:  "consent",
		Match: func(in Input) bool { return strings.Contains(in.folded, "procédure d'approbation") },
		Type:  model.VoteTypeAdoption,
		Label: LabelConsent,
	},
	{
		Name:  "commission-proposal",
		Match: func(in Input) bool { return commissionProposal.MatchString(in.folded) },
		Type:  model.VoteTypeAdoption,
		Label: LabelCommission,
	},
}

package classify

import (
	"github.com/nao1215/quivotequoi/internal/model"
)

// Classification is the outcome of classifying a subject.
type Classification struct {
	// Subject is the printed subject or the canonical label of the rule.
	Subject string

	// Amendment is the amendment token. It is only set for AMENDMENT.
	Amendment *string

	Type model.VoteType
}

// Classifier evaluates a rule table.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier. Without rules it uses DefaultRules.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the outcome of the first matching rule, or IGNORE.
func (c *Classifier) Classify(subject string, marker *string) Classification {
	in := NewInput(subject, marker)
	for _, r := range c.rules {
		if !r.Match(in) {
			continue
		}
		if r.Type == "" {
			in.Marker = ""
			in.foldedMarker = ""
			continue
		}
		out := Classification{Subject: subject, Type: r.Type}
		if r.Label != "" {
			out.Subject = r.Label
		}
		if r.KeepMarker {
			out.Amendment = model.Ptr(in.Marker)
		}
		return out
	}
	return Classification{Subject: subject, Type: model.VoteTypeIgnore}
}

var defaultClassifier = New()

// Classify classifies with DefaultRules.
func Classify(subject string, marker *string) Classification {
	return defaultClassifier.Classify(subject, marker)
}

package classify

import (
	"regexp"
	"strings"

	"github.com/nao1215/quivotequoi/internal/model"
)

var (
	committeeCode  = regexp.MustCompile(`[A-Z]{4}`)
	groupSeparator = regexp.MustCompile(`,|\n`)
)

// groupAliases maps former and long group names to current codes.
var groupAliases = map[string]string{
	"Renew":                             "RE",
	"Patriots for Europe Group":         "P4E",
	"ENF":                               "P4E",
	"ID":                                "P4E",
	"Europe of Sovereign Nations Group": "ENS",
	"PPE-DE":                            "PPE",
	"The Left":                          "GUE/NGL",
}

// NormalizeGroup returns the current code of a political group.
// Unknown names are returned unchanged.
func NormalizeGroup(name string) string {
	if code, ok := groupAliases[name]; ok {
		return code
	}
	return name
}

// ParseAuthor reads the author column of a minutes table.
func ParseAuthor(text string) model.Author {
	switch {
	case strings.Contains(text, "députés"):
		return model.Author{Kind: model.AuthorDeputees}
	case text == "commission":
		return model.Author{Kind: model.AuthorCommission}
	case committeeCode.MatchString(text):
		return model.Author{Kind: model.AuthorCommission, Committee: committeeCode.FindString(text)}
	case strings.Contains(text, "rapporteur"):
		return model.Author{Kind: model.AuthorRapporteur}
	case strings.Contains(text, "texte original"):
		return model.Author{Kind: model.AuthorOriginal}
	}

	groups := []string{}
	for _, part := range groupSeparator.Split(text, -1) {
		if g := NormalizeGroup(strings.TrimSpace(part)); g != "" {
			groups = append(groups, g)
		}
	}
	return model.Author{Kind: model.AuthorGroup, Groups: groups}
}

// ParseResult reads a result mark. Unknown marks are returned as is with
// ok set to false.
func ParseResult(mark string) (model.Result, bool) {
	switch strings.TrimSpace(mark) {
	case "+":
		return model.ResultAdopted, true
	case "-", "—", "–":
		return model.ResultRejected, true
	case "↓":
		return model.ResultLapsed, true
	}
	return model.Result(mark), false
}

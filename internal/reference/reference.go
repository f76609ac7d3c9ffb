package reference

import (
	"regexp"
	"strings"
)

var (
	docPattern        = regexp.MustCompile(`(RC-)?[ABC][0-9]+-[0-9]{4}/[0-9]{4}`)
	procedurePattern  = regexp.MustCompile(`[0-9]{4}/[0-9]{4}[A-Z]?\([A-Z]{3}\)?`)
	splitPattern      = regexp.MustCompile(`\d+`)
	rollCallAmPattern = regexp.MustCompile(`am\s+(.*)`)

	// locator is a legal-text locator noun followed by its designation.
	locator = `((?:article|alinéa|après le considérant|considérant|§|après le paragraphe|paragraphe|après le point|point|annexe|` +
		`after (?:the )?recital|recital|after (?:the )?paragraph|paragraph|after (?:the )?point|annex) [\p{L}\p{N}_]+)`
	locationPattern = regexp.MustCompile(locator)

	// titlePattern reads "<locator> - am <numbers>/<split>" roll-call titles.
	titlePattern = regexp.MustCompile(locator + `?[ -,]*(?:am ([\d -,]*\d))?(?:/(\d)\b)?`)
)

// DefaultCorrections maps known misprinted document references to the
// verified reference.
var DefaultCorrections = map[string]string{
	"A9-0280/2019": "A9-0280/2021",
}

// Extractor extracts document references with a correction table.
type Extractor struct {
	corrections map[string]string
}

// NewExtractor creates an Extractor. A nil table uses DefaultCorrections.
func NewExtractor(corrections map[string]string) *Extractor {
	if corrections == nil {
		corrections = DefaultCorrections
	}
	return &Extractor{corrections: corrections}
}

// Doc returns the first document reference in text, corrected if the
// correction table knows it.
func (e *Extractor) Doc(text string) *string {
	m := docPattern.FindString(strings.ToUpper(text))
	if m == "" {
		return nil
	}
	if fixed, ok := e.corrections[m]; ok {
		m = fixed
	}
	return &m
}

var defaultExtractor = NewExtractor(nil)

// Doc extracts a document reference with DefaultCorrections.
func Doc(text string) *string {
	return defaultExtractor.Doc(text)
}

// Procedure returns the first procedure reference in text, e.g. "2023/0123(COD)".
func Procedure(text string) *string {
	m := procedurePattern.FindString(text)
	if m == "" {
		return nil
	}
	return &m
}

// Location returns every locator of the lowercased text joined by ", ".
func Location(text string) *string {
	matches := locationPattern.FindAllString(strings.ToLower(text), -1)
	if len(matches) == 0 {
		return nil
	}
	s := strings.Join(matches, ", ")
	return &s
}

// Split returns the first number in text, the part number of a split vote.
func Split(text string) *string {
	m := splitPattern.FindString(text)
	if m == "" {
		return nil
	}
	return &m
}

// Title reads the location, amendment numbers and split part of a vote
// title. Each component collects all its matches joined by ", ".
func Title(text string) (loc, amendment, split *string) {
	var parts [3][]string
	for _, m := range titlePattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		for i := range parts {
			if m[i+1] != "" {
				parts[i] = append(parts[i], m[i+1])
			}
		}
	}
	join := func(s []string) *string {
		if len(s) == 0 {
			return nil
		}
		v := strings.Join(s, ", ")
		return &v
	}
	return join(parts[0]), join(parts[1]), join(parts[2])
}

// RollCallAmendment reads the amendment and split tokens printed after "am"
// in a roll-call title, as in "A9-0100/2024 - Jane Doe - Am 12/2".
func RollCallAmendment(title string) (amendment, split *string) {
	m := rollCallAmPattern.FindStringSubmatch(strings.ToLower(title))
	if m == nil {
		return nil, nil
	}
	parts := strings.Split(m[1], "/")
	amendment = &parts[0]
	if len(parts) > 1 {
		split = &parts[1]
	}
	return amendment, split
}

package votes

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/quivotequoi/internal/classify"
	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/reference"
)

// Members resolves roll-call member entries.
type Members interface {
	ByLastName(name string) (int, bool)
	Has(id int) bool
}

// Skip excludes the minutes record of Doc whose classified subject is Subject.
type Skip struct {
	Doc     string `yaml:"doc"`
	Subject string `yaml:"subject"`
}

// DefaultSkips lists records known to be misprinted in the minutes.
var DefaultSkips = []Skip{
	{Doc: "A9-0337/2023", Subject: "Article 16, § 3 TUE"},
}

// ParseContext carries the state and collaborators of one sitting.
type ParseContext struct {
	// Sitting is the session the parsed day belongs to.
	Sitting model.Sitting

	// Date is the day the parsed document was published for.
	Date time.Time

	// URL is the address of the parsed document.
	URL string

	// Dedup is the sitting's dedup set. It is required.
	Dedup *model.DedupSet

	// Members resolves roll-call entries. Without it no position is kept.
	Members Members

	// Refs extracts document references. Defaults to the default corrections.
	Refs *reference.Extractor

	// Classifier classifies subjects. Defaults to the default rule table.
	Classifier *classify.Classifier

	// Skips lists records to drop.
	Skips []Skip

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewParseContext returns a context for day with a fresh dedup set shared
// by nothing else.
func NewParseContext(s model.Sitting, day time.Time) *ParseContext {
	return &ParseContext{
		Sitting: s,
		Date:    day,
		Dedup:   model.NewDedupSet(),
		Skips:   DefaultSkips,
	}
}

func (pc *ParseContext) check() error {
	if pc.Dedup == nil {
		return ErrNoDedupSet
	}
	if pc.Refs == nil {
		pc.Refs = reference.NewExtractor(nil)
	}
	if pc.Classifier == nil {
		pc.Classifier = classify.New()
	}
	if pc.Logger == nil {
		pc.Logger = slog.Default()
	}
	return nil
}

func (pc *ParseContext) skipped(doc, subject string) bool {
	for _, s := range pc.Skips {
		if s.Doc == doc && s.Subject == subject {
			return true
		}
	}
	return false
}

// doc returns the reference found in text, or fallback.
func (pc *ParseContext) doc(text, fallback string) string {
	if d := pc.Refs.Doc(text); d != nil {
		return *d
	}
	return fallback
}

var numbers = regexp.MustCompile(`\d+`)

// tally reads the first three counts printed in text.
func tally(text string) *model.Tally {
	found := numbers.FindAllString(text, 3)
	counts := make([]int, 0, len(found))
	for _, s := range found {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		counts = append(counts, n)
	}
	return model.TallyFrom(counts)
}

// rowCells renders a record in a stable column order for deduplication.
func rowCells(row model.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cells := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := row.Lookup(k)
		if !ok {
			cells = append(cells, k+"\x00")
			continue
		}
		cells = append(cells, k+"="+v)
	}
	return cells
}

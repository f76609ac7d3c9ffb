package amendment

import (
	"iter"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/quivotequoi/internal/model"
)

// State is the position of the segmenter within an amendment.
type State int

const (
	// StateSeekingMarker waits for the next marker. Rows seen in this state
	// while a record is open are author lines.
	StateSeekingMarker State = iota

	// StateCapturingBody appends rows to the old and new text buffers.
	StateCapturingBody
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSeekingMarker:
		return "seeking_marker"
	case StateCapturingBody:
		return "capturing_body"
	default:
		return "unknown"
	}
}

// Roster resolves a member display name to a member id.
type Roster interface {
	Lookup(name string) (int, bool)
}

// DefaultMarkers are the row prefixes announcing an amendment, for the
// French and English editions.
var DefaultMarkers = []string{"Amendement", "Amendment"}

// DefaultSuppressed are the amended-text values meaning the amendment
// deletes the passage. Such amendments are not emitted.
var DefaultSuppressed = []string{"supprimé", "deleted"}

// DefaultNoise matches page furniture that must not reach any buffer:
// page and part numbering, document stamps, language editions, the Union
// motto and original-language stamps.
var DefaultNoise = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.\d+\.\d+`),
	regexp.MustCompile(`AM\\`),
	regexp.MustCompile(`PE\d{3}.\d{3}`),
	regexp.MustCompile(`\bFR\b`),
	regexp.MustCompile(`Unie dans la diversité`),
	regexp.MustCompile(`United in diversity`),
	regexp.MustCompile(`Or\. en`),
}

var numberPattern = regexp.MustCompile(`\d+`)

// Segmenter turns extracted document rows into amendments.
// A Segmenter holds configuration only and is safe for concurrent use;
// all per-document state lives in an Accumulator.
type Segmenter struct {
	roster     Roster
	markers    []string
	suppressed []string
	noise      []*regexp.Regexp
	logger     *slog.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithMarkers replaces the amendment marker prefixes.
func WithMarkers(markers ...string) Option {
	return func(s *Segmenter) {
		s.markers = markers
	}
}

// WithSuppressed replaces the withdrawn-text markers.
func WithSuppressed(values ...string) Option {
	return func(s *Segmenter) {
		s.suppressed = values
	}
}

// WithNoise replaces the noise patterns.
func WithNoise(patterns ...*regexp.Regexp) Option {
	return func(s *Segmenter) {
		s.noise = patterns
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Segmenter) {
		s.logger = logger
	}
}

// New creates a Segmenter resolving authors through roster.
// A nil roster resolves no author.
func New(roster Roster, opts ...Option) *Segmenter {
	s := &Segmenter{
		roster:     roster,
		markers:    DefaultMarkers,
		suppressed: DefaultSuppressed,
		noise:      DefaultNoise,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Accumulator is the in-progress amendment of one document.
type Accumulator struct {
	State State

	number  int
	open    bool
	old     strings.Builder
	new     strings.Builder
	authors []string
}

// Open reports whether an amendment number has been read and not yet flushed.
func (a *Accumulator) Open() bool {
	return a.open
}

// Number returns the number of the open amendment, or 0.
func (a *Accumulator) Number() int {
	return a.number
}

func (a *Accumulator) reset() {
	a.number = 0
	a.open = false
	a.old.Reset()
	a.new.Reset()
	a.authors = nil
	a.State = StateSeekingMarker
}

// Segment returns the amendments found in rows, in document order.
// The sequence is computed lazily. Each iteration runs the machine from a
// fresh Accumulator, so ranging over the sequence twice yields the same
// amendments.
func (s *Segmenter) Segment(rows [][]string) iter.Seq[model.Amendment] {
	return func(yield func(model.Amendment) bool) {
		acc := &Accumulator{}
		for _, row := range rows {
			if am, ok := s.Step(acc, row); ok {
				if !yield(am) {
					return
				}
			}
		}
		if am, ok := s.Flush(acc); ok {
			yield(am)
		}
	}
}

// Step feeds one row to the machine. It returns the previous amendment when
// the row starts a new one and the previous one is emittable.
func (s *Segmenter) Step(acc *Accumulator, row []string) (model.Amendment, bool) {
	col0, col1 := cell(row, 0), cell(row, 1)

	if s.isMarker(col0) {
		am, ok := s.Flush(acc)
		n, found := parseNumber(col0)
		if !found {
			s.logger.Debug("amendment marker without number", "row", col0)
			return am, ok
		}
		acc.number = n
		acc.open = true
		// Single-row header layout: "Amendment N | Amendment".
		if s.isMarker(col1) {
			acc.State = StateCapturingBody
		}
		return am, ok
	}

	if s.isMarker(col1) {
		acc.State = StateCapturingBody
		return model.Amendment{}, false
	}

	joined := strings.Join(row, "")
	if s.isNoise(joined) {
		return model.Amendment{}, false
	}

	if strings.Contains(col0, "http") || strings.Contains(joined, "Justification") {
		acc.State = StateSeekingMarker
		return model.Amendment{}, false
	}

	switch {
	case acc.State == StateCapturingBody:
		acc.old.WriteString(col0)
		acc.old.WriteString(" ")
		acc.new.WriteString(col1)
		acc.new.WriteString(" ")
	case acc.open:
		acc.authors = append(acc.authors, row...)
	}
	return model.Amendment{}, false
}

// Flush closes the open amendment and resets acc. It reports false when no
// number was read, when both texts are empty or when the amended text marks
// a deletion.
func (s *Segmenter) Flush(acc *Accumulator) (model.Amendment, bool) {
	defer acc.reset()

	if !acc.open {
		return model.Amendment{}, false
	}
	am := model.Amendment{
		Number:  acc.number,
		Old:     strings.TrimSpace(acc.old.String()),
		New:     strings.TrimSpace(acc.new.String()),
		Authors: s.resolveAuthors(acc.authors),
	}
	if am.Old == "" && am.New == "" {
		return model.Amendment{}, false
	}
	if slices.Contains(s.suppressed, am.New) {
		s.logger.Debug("skipping deleting amendment", "number", am.Number)
		return model.Amendment{}, false
	}
	return am, true
}

// resolveAuthors joins the author lines, splits them on commas and keeps
// the names the roster knows, without duplicates.
func (s *Segmenter) resolveAuthors(lines []string) []int {
	ids := []int{}
	if s.roster == nil || len(lines) == 0 {
		return ids
	}
	for _, name := range strings.Split(strings.Join(lines, " "), ",") {
		id, ok := s.roster.Lookup(strings.TrimSpace(name))
		if !ok || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *Segmenter) isMarker(text string) bool {
	for _, m := range s.markers {
		if strings.HasPrefix(text, m) {
			return true
		}
	}
	return false
}

func (s *Segmenter) isNoise(text string) bool {
	for _, re := range s.noise {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func parseNumber(text string) (int, bool) {
	m := numberPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrMissingColumn is returned when the members file lacks a required column.
	ErrMissingColumn = errors.New("members file is missing a required column")

	// ErrInvalidID is returned when a member id is not an integer.
	ErrInvalidID = errors.New("invalid member id")
)

// Member is one member of the legislature.
type Member struct {
	ID       int
	FullName string
	LastName string
}

// Roster resolves member names. A Roster is immutable once built and safe
// for concurrent use.
type Roster struct {
	members   []Member
	byDisplay map[string]int
	byLast    map[string]int
	ids       map[int]struct{}
}

var (
	titler = cases.Title(language.French)
	upper  = cases.Upper(language.French)
	lower  = cases.Lower(language.French)
)

// DisplayName returns the title-cased form of a full name, the form
// amendment documents print signatories in.
func DisplayName(name string) string {
	return titler.String(strings.TrimSpace(name))
}

// Capitalize upper-cases the first letter of name and lower-cases the rest.
func Capitalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(name)
	return upper.String(name[:size]) + lower.String(name[size:])
}

// New builds a Roster. When two members share a key the first one wins.
func New(members []Member) *Roster {
	r := &Roster{
		members:   members,
		byDisplay: make(map[string]int, len(members)),
		byLast:    make(map[string]int, len(members)),
		ids:       make(map[int]struct{}, len(members)),
	}
	for _, m := range members {
		r.ids[m.ID] = struct{}{}
		if k := DisplayName(m.FullName); k != "" {
			if _, dup := r.byDisplay[k]; !dup {
				r.byDisplay[k] = m.ID
			}
		}
		if k := Capitalize(m.LastName); k != "" {
			if _, dup := r.byLast[k]; !dup {
				r.byLast[k] = m.ID
			}
		}
	}
	return r
}

// Load reads a members CSV file with at least the id, full_name and
// last_name columns. Other columns are ignored.
func Load(rd io.Reader) (*Roster, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read members header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range []string{"id", "full_name", "last_name"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	field := func(rec []string, col string) string {
		if i := index[col]; i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var members []Member
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read members: %w", err)
		}
		id, err := strconv.Atoi(strings.TrimSpace(field(rec, "id")))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, field(rec, "id"))
		}
		members = append(members, Member{
			ID:       id,
			FullName: field(rec, "full_name"),
			LastName: field(rec, "last_name"),
		})
	}
	return New(members), nil
}

// LoadFile reads a members CSV file from path.
func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open members file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup resolves a display name exactly as printed. It implements the
// author lookup of the amendment segmenter.
func (r *Roster) Lookup(name string) (int, bool) {
	if r == nil {
		return 0, false
	}
	id, ok := r.byDisplay[name]
	return id, ok
}

// ByLastName resolves a family name, ignoring its case.
func (r *Roster) ByLastName(name string) (int, bool) {
	if r == nil {
		return 0, false
	}
	id, ok := r.byLast[Capitalize(name)]
	return id, ok
}

// Has reports whether id belongs to a known member.
func (r *Roster) Has(id int) bool {
	if r == nil {
		return false
	}
	_, ok := r.ids[id]
	return ok
}

// Len returns the number of members.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.members)
}

// Members returns the members in file order.
func (r *Roster) Members() []Member {
	if r == nil {
		return nil
	}
	return r.members
}

// Present returns, in roster order, the members whose full or family name
// appears in names. Names are compared in title case.
func (r *Roster) Present(names []string) []int {
	ids := []int{}
	if r == nil || len(names) == 0 {
		return ids
	}
	listed := make(map[string]struct{}, len(names))
	for _, n := range names {
		listed[DisplayName(n)] = struct{}{}
	}
	for _, m := range r.members {
		_, full := listed[DisplayName(m.FullName)]
		_, last := listed[DisplayName(m.LastName)]
		if full || last {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

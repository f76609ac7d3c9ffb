package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/quivotequoi/internal/model"
)

// DefaultBaseURL is the endpoint that serves the session calendar.
const DefaultBaseURL = "https://www.europarl.europa.eu/plenary/fr/ajax/getSessionCalendar.html"

// dateLayout is the day/month/year layout of the term bounds.
const dateLayout = "02/01/2006"

var (
	// ErrInvalidCalendar is returned when the calendar document cannot be decoded.
	ErrInvalidCalendar = errors.New("invalid session calendar")

	// ErrInvalidDate is returned for a date that does not exist.
	ErrInvalidDate = errors.New("invalid calendar date")
)

// URL returns the calendar address for a term.
func URL(base string, term int) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "?family=PV&termId=" + strconv.Itoa(term)
}

// number accepts both JSON numbers and numeric strings.
type number int

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, b)
	}
	*n = number(v)
	return nil
}

type session struct {
	Year       number `json:"year"`
	StartMonth number `json:"monthStartDateSession"`
	StartDay   number `json:"dayStartDateSession"`
	EndMonth   number `json:"monthEndDateSession"`
	EndDay     number `json:"dayEndDateSession"`
}

type document struct {
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Sessions  []session `json:"sessionCalendar"`
}

// Parse decodes the calendar and returns the sittings of the term sorted by
// date. A session listed more than once yields one sitting.
func Parse(r io.Reader) ([]model.Sitting, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCalendar, err)
	}

	termStart, err := time.Parse(dateLayout, doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: term start %q", ErrInvalidDate, doc.StartDate)
	}
	termEnd, err := time.Parse(dateLayout, doc.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: term end %q", ErrInvalidDate, doc.EndDate)
	}

	seen := make(map[[2]time.Time]struct{})
	var sittings []model.Sitting
	for _, sess := range doc.Sessions {
		start, err := day(sess.Year, sess.StartMonth, sess.StartDay)
		if err != nil {
			return nil, err
		}
		end, err := day(sess.Year, sess.EndMonth, sess.EndDay)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[[2]time.Time{start, end}]; ok {
			continue
		}
		seen[[2]time.Time{start, end}] = struct{}{}

		var days []time.Time
		for d := start; !d.Before(termStart) && !d.After(termEnd) && !d.After(end); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
		if len(days) == 0 {
			continue
		}
		sittings = append(sittings, model.Sitting{Date: start, Days: days})
	}

	slices.SortFunc(sittings, func(a, b model.Sitting) int {
		return a.Date.Compare(b.Date)
	})
	return sittings, nil
}

// day builds a date and rejects values time.Date would normalize.
func day(year, month, dom number) (time.Time, error) {
	t := time.Date(int(year), time.Month(month), int(dom), 0, 0, 0, 0, time.UTC)
	if t.Year() != int(year) || t.Month() != time.Month(month) || t.Day() != int(dom) {
		return time.Time{}, fmt.Errorf("%w: %d-%02d-%02d", ErrInvalidDate, year, month, dom)
	}
	return t, nil
}

// ParseDates turns YYYY-MM-DD arguments into one-day sittings.
func ParseDates(args []string) ([]model.Sitting, error) {
	sittings := make([]model.Sitting, 0, len(args))
	for _, arg := range args {
		d, err := time.Parse(time.DateOnly, arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, arg)
		}
		sittings = append(sittings, model.NewSitting(d))
	}
	return sittings, nil
}

package calendar

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/quivotequoi/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

const calendarJSON = `{
  "startDate": "16/07/2024",
  "endDate": "31/12/2024",
  "sessionCalendar": [
    {"year": "2024", "monthStartDateSession": "9", "dayStartDateSession": "16",
     "monthEndDateSession": "9", "dayEndDateSession": "19"},
    {"year": 2024, "monthStartDateSession": 7, "dayStartDateSession": 16,
     "monthEndDateSession": 7, "dayEndDateSession": 18},
    {"year": "2024", "monthStartDateSession": "4", "dayStartDateSession": "22",
     "monthEndDateSession": "4", "dayEndDateSession": "25"},
    {"year": "2024", "monthStartDateSession": "9", "dayStartDateSession": "16",
     "monthEndDateSession": "9", "dayEndDateSession": "19"}
  ]
}`

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("sittings inside the term sorted by date", func(t *testing.T) {
		t.Parallel()

		got, err := Parse(strings.NewReader(calendarJSON))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []model.Sitting{
			{Date: date("2024-07-16"), Days: []time.Time{date("2024-07-16"), date("2024-07-17"), date("2024-07-18")}},
			{Date: date("2024-09-16"), Days: []time.Time{date("2024-09-16"), date("2024-09-17"), date("2024-09-18"), date("2024-09-19")}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("sittings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("days past the term end are clipped", func(t *testing.T) {
		t.Parallel()

		doc := `{"startDate": "01/01/2024", "endDate": "17/01/2024", "sessionCalendar": [
			{"year": 2024, "monthStartDateSession": 1, "dayStartDateSession": 15,
			 "monthEndDateSession": 1, "dayEndDateSession": 18}]}`
		got, err := Parse(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || len(got[0].Days) != 3 {
			t.Fatalf("expected one sitting with 3 days, got %v", got)
		}
	})

	t.Run("invalid term date", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(strings.NewReader(`{"startDate": "2024-07-16", "endDate": "31/12/2024"}`))
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("expected ErrInvalidDate, got %v", err)
		}
	})

	t.Run("impossible session date", func(t *testing.T) {
		t.Parallel()

		doc := `{"startDate": "01/01/2024", "endDate": "31/12/2024", "sessionCalendar": [
			{"year": 2024, "monthStartDateSession": 2, "dayStartDateSession": 30,
			 "monthEndDateSession": 3, "dayEndDateSession": 1}]}`
		_, err := Parse(strings.NewReader(doc))
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("expected ErrInvalidDate, got %v", err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(strings.NewReader("<html>"))
		if !errors.Is(err, ErrInvalidCalendar) {
			t.Errorf("expected ErrInvalidCalendar, got %v", err)
		}
	})
}

func TestParseDates(t *testing.T) {
	t.Parallel()

	got, err := ParseDates([]string{"2024-01-15", "2024-02-05"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Sitting{model.NewSitting(date("2024-01-15")), model.NewSitting(date("2024-02-05"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sittings mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseDates([]string{"15/01/2024"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestURL(t *testing.T) {
	t.Parallel()

	want := DefaultBaseURL + "?family=PV&termId=10"
	if got := URL("", 10); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

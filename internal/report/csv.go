package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/quivotequoi/internal/model"
)

// ErrMissingColumn is returned when a CSV input lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// VoteHeader is the column order of the votes file.
var VoteHeader = []string{
	"id", "date", "doc", "ref", "subject", "subject_rcv", "author", "type",
	"amendment", "split", "rcv", "result", "votes", "positions", "url", "url_rcv",
}

// AmendmentHeader is the column order of the amendments file.
var AmendmentHeader = []string{"doc", "nr", "old", "new", "authors", "url"}

// DocumentHeader is the column order of the documents file.
var DocumentHeader = []string{"ref", "procedure", "url"}

// AttendanceHeader is the column order of the attendance file.
var AttendanceHeader = []string{"date", "members", "url"}

// VoteRow renders a vote in VoteHeader order. Absent values are empty
// cells; the author, tally and positions are JSON encoded.
func VoteRow(v model.Vote) ([]string, error) {
	author := ""
	if v.Author != nil {
		b, err := json.Marshal(v.Author)
		if err != nil {
			return nil, err
		}
		author = string(b)
	}
	tally := ""
	if v.Tally != nil {
		tally = "[" + v.Tally.String() + "]"
	}
	positions := ""
	if len(v.Positions) > 0 {
		b, err := json.Marshal(v.Positions)
		if err != nil {
			return nil, err
		}
		positions = string(b)
	}
	date := ""
	if !v.Date.IsZero() {
		date = v.Date.Format(time.DateOnly)
	}
	return []string{
		v.ID,
		date,
		v.Doc,
		model.Deref(v.Procedure),
		v.Subject,
		v.SubjectRollCall,
		author,
		string(v.Type),
		model.Deref(v.Amendment),
		model.Deref(v.Split),
		strconv.FormatBool(v.RollCall),
		string(v.Result),
		tally,
		positions,
		v.URL,
		v.RollCallURL,
	}, nil
}

// CSVWriter writes the flat record files.
//
// Design decision: We use standard encoding/csv because the files are
// plain RFC 4180 tables consumed by spreadsheet tools and the site build.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(output)}
}

// WriteVotes writes the header and one row per vote.
func (c *CSVWriter) WriteVotes(votes []model.Vote) error {
	rows := make([][]string, 0, len(votes))
	for _, v := range votes {
		row, err := VoteRow(v)
		if err != nil {
			return fmt.Errorf("failed to render vote %s: %w", v.Key(), err)
		}
		rows = append(rows, row)
	}
	return c.write(VoteHeader, rows)
}

// WriteAmendments writes the header and one row per amendment.
func (c *CSVWriter) WriteAmendments(amendments []model.Amendment) error {
	rows := make([][]string, 0, len(amendments))
	for _, a := range amendments {
		authors, err := json.Marshal(a.Authors)
		if err != nil {
			return err
		}
		rows = append(rows, []string{a.Doc, strconv.Itoa(a.Number), a.Old, a.New, string(authors), a.URL})
	}
	return c.write(AmendmentHeader, rows)
}

// WriteDocuments writes the header and one row per document.
func (c *CSVWriter) WriteDocuments(docs []model.Document) error {
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{d.Ref, model.Deref(d.Procedure), d.URL})
	}
	return c.write(DocumentHeader, rows)
}

// Attendance is one day of the attendance register.
type Attendance struct {
	Date    time.Time
	Members []int
	URL     string
}

// WriteAttendance writes the header and one row per day.
func (c *CSVWriter) WriteAttendance(days []Attendance) error {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		members := d.Members
		if members == nil {
			members = []int{}
		}
		b, err := json.Marshal(members)
		if err != nil {
			return err
		}
		rows = append(rows, []string{d.Date.Format(time.DateOnly), string(b), d.URL})
	}
	return c.write(AttendanceHeader, rows)
}

func (c *CSVWriter) write(header []string, rows [][]string) error {
	if err := c.w.Write(header); err != nil {
		return err
	}
	if err := c.w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ReadDocuments reads a votes file and returns the voted documents in order
// of first appearance. A document keeps the last procedure printed on its
// votes.
func ReadDocuments(r io.Reader) ([]model.Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read votes header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range []string{"doc", "ref"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var docs []model.Document
	seen := make(map[string]int)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read votes: %w", err)
		}
		doc, ref := field(rec, index["doc"]), field(rec, index["ref"])
		if doc == "" {
			continue
		}
		i, ok := seen[doc]
		if !ok {
			i = len(docs)
			seen[doc] = i
			docs = append(docs, model.Document{Ref: doc})
		}
		if ref != "" {
			docs[i].Procedure = model.Ptr(ref)
		}
	}
	return docs, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

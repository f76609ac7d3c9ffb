package votes

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/quivotequoi/internal/classify"
	"github.com/nao1215/quivotequoi/internal/grid"
	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/reference"
	"github.com/nao1215/quivotequoi/internal/xmltree"
)

// Column names of the legacy results table.
const (
	ColumnSubject   = "Objet"
	ColumnResult    = "Vote"
	ColumnRollCall  = "AN, etc."
	ColumnAmendment = "Am n°"
	ColumnAuthor    = "Auteur"
	ColumnRemarks   = "Votes par AN/VE - observations"
)

// LegacyParser reads the Vote.Results schema.
type LegacyParser struct{}

// Parse implements MinutesParser.
//
// Each Vote.Result holds a description naming the voted document and a
// results table. A row names its own document when its subject carries a
// reference; otherwise the last seen reference applies. Rows already seen
// in the sitting, rows without a result and split requests ("div") are
// skipped.
func (LegacyParser) Parse(pc *ParseContext, r io.Reader) ([]model.Vote, error) {
	if err := pc.check(); err != nil {
		return nil, err
	}
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, err
	}
	results := root.Find("//Vote.Results")
	if results == nil {
		return nil, fmt.Errorf("%w: no Vote.Results element", ErrUnexpectedRoot)
	}

	var out []model.Vote
	for _, entry := range results.Children {
		description := entry.Find("Vote.Result.Description.Text")
		table := entry.Find("Vote.Result.Table.Results/TABLE")
		if description == nil || table == nil {
			continue
		}
		t, err := grid.FromXML(table)
		if err != nil {
			pc.Logger.Warn("skipping unreadable results table", "url", pc.URL, "error", err)
			continue
		}

		doc := pc.doc(description.InnerText(), "")
		for _, row := range grid.Records(grid.Reconstruct(t)) {
			subject := row.Get(ColumnSubject)
			doc = pc.doc(subject, doc)

			if !pc.Dedup.AddRow(doc, rowCells(row)) {
				continue
			}
			mark, hasResult := row.Lookup(ColumnResult)
			rcv, hasRollCall := row.Lookup(ColumnRollCall)
			if doc == "" || !hasResult || rcv == "div" {
				continue
			}

			var marker *string
			if am, ok := row.Lookup(ColumnAmendment); ok {
				marker = &am
			}
			c := pc.Classifier.Classify(subject, marker)
			if pc.skipped(doc, c.Subject) {
				pc.Logger.Debug("skipping listed record", "doc", doc, "subject", c.Subject)
				continue
			}

			result, _ := classify.ParseResult(mark)
			v := model.Vote{
				SittingDate: pc.Sitting.Date,
				Date:        pc.Date,
				Doc:         doc,
				Subject:     c.Subject,
				Type:        c.Type,
				Amendment:   c.Amendment,
				Split:       reference.Split(rcv),
				RollCall:    hasRollCall && strings.Contains(rcv, "AN"),
				Result:      result,
				Tally:       tally(row.Get(ColumnRemarks)),
				URL:         pc.URL,
				Source:      model.SourceMinutes,
			}
			if author := row.Get(ColumnAuthor); author != "" {
				a := classify.ParseAuthor(author)
				v.Author = &a
			}
			out = append(out, v)
		}
	}
	return out, nil
}

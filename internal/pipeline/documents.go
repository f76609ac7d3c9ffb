package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/nao1215/quivotequoi/internal/amendment"
	"github.com/nao1215/quivotequoi/internal/fetch"
	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/page"
	"github.com/nao1215/quivotequoi/internal/reference"
)

// Documents lists the documents voted on, in order of first appearance.
// The procedure of a document is the last one printed on its votes.
func Documents(records []model.Vote) []model.Document {
	var docs []model.Document
	index := make(map[string]int)
	for _, v := range records {
		if v.Doc == "" {
			continue
		}
		i, ok := index[v.Doc]
		if !ok {
			i = len(docs)
			index[v.Doc] = i
			docs = append(docs, model.Document{Ref: v.Doc})
		}
		if v.Procedure != nil {
			docs[i].Procedure = v.Procedure
		}
	}
	return docs
}

// resolved is the outcome of one document.
type resolved struct {
	doc        model.Document
	amendments []model.Amendment
}

// DocumentBatch resolves documents to their procedure and tabled amendments.
type DocumentBatch struct {
	sources   *Sources
	rows      amendment.RowSource
	segmenter *amendment.Segmenter
	logger    *slog.Logger
}

// NewDocumentBatch creates a DocumentBatch. Without a row source the
// amendments are not extracted.
func NewDocumentBatch(sources *Sources, rows amendment.RowSource, segmenter *amendment.Segmenter, logger *slog.Logger) *DocumentBatch {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentBatch{sources: sources, rows: rows, segmenter: segmenter, logger: logger}
}

// Resolve fetches the page of every document. The documents are returned in
// input order. A document whose page cannot be fetched or parsed is returned
// unresolved, with the procedure it came in with.
func (d *DocumentBatch) Resolve(ctx context.Context, docs []model.Document) ([]model.Document, []model.Amendment) {
	known := make(map[string]model.Document, len(docs))
	refs := make([]string, len(docs))
	for i, doc := range docs {
		refs[i] = doc.Ref
		known[doc.Ref] = doc
	}

	pool := d.sources.Pool
	if pool == nil {
		pool = fetch.NewPool()
	}

	out := make([]model.Document, 0, len(docs))
	var amendments []model.Amendment
	for _, res := range fetch.Map(ctx, pool, refs, d.resolve) {
		if res.Err != nil {
			doc := known[res.Key]
			doc.Unresolved = true
			out = append(out, doc)
			continue
		}
		if res.Value.doc.Procedure == nil {
			res.Value.doc.Procedure = known[res.Key].Procedure
		}
		out = append(out, res.Value.doc)
		amendments = append(amendments, res.Value.amendments...)
	}
	return out, amendments
}

func (d *DocumentBatch) resolve(ctx context.Context, ref string) (resolved, error) {
	url, err := reference.DocumentURL(d.sources.BaseURL, ref, d.sources.Lang)
	if err != nil {
		return resolved{}, err
	}
	body, err := d.sources.Fetcher.Get(ctx, url)
	if err != nil {
		return resolved{}, err
	}
	parser, err := page.NewParser(url)
	if err != nil {
		return resolved{}, err
	}
	p, err := parser.ParseDocument(bytes.NewReader(body))
	if err != nil {
		return resolved{}, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	out := resolved{doc: model.Document{Ref: ref, Procedure: p.Procedure, URL: url}}
	if d.rows == nil || d.segmenter == nil {
		return out, nil
	}
	for _, pdf := range p.AmendmentPDFs {
		rows, err := d.rows.Rows(ctx, pdf)
		if err != nil {
			d.logger.Warn("failed to read amendment rows", "doc", ref, "url", pdf, "error", err)
			continue
		}
		for am := range d.segmenter.Segment(rows) {
			am.Doc = ref
			am.URL = pdf
			out.amendments = append(out.amendments, am)
		}
	}
	return out, nil
}

// Presence resolves attendance names to member ids.
type Presence interface {
	Present(names []string) []int
}

// Attendance is the attendance register of one day.
type Attendance struct {
	Date    time.Time
	URL     string
	Members []int
	Err     error
}

// Attendances fetches the attendance register of every day. Days without
// a register come back with Err set.
func Attendances(ctx context.Context, sources *Sources, members Presence, days []time.Time) []Attendance {
	days = slices.Clone(days)
	slices.SortFunc(days, time.Time.Compare)
	days = slices.CompactFunc(days, time.Time.Equal)

	urls := make([]string, len(days))
	for i, day := range days {
		urls[i] = sources.URL(KindAttendance, day)
	}
	pool := sources.Pool
	if pool == nil {
		pool = fetch.NewPool()
	}

	out := make([]Attendance, len(days))
	for i, res := range pool.Fetch(ctx, sources.Fetcher, urls) {
		out[i] = Attendance{Date: days[i], URL: res.Key, Err: res.Err}
		if res.Err != nil {
			continue
		}
		parser, err := page.NewParser(res.Key)
		if err != nil {
			out[i].Err = err
			continue
		}
		names, err := parser.Attendance(bytes.NewReader(res.Value))
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Members = members.Present(names)
	}
	return out
}

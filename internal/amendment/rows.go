package amendment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nao1215/quivotequoi/internal/grid"
)

// ErrRowsFormat is returned when extracted rows are neither a list of rows
// nor a list of pages of rows.
var ErrRowsFormat = errors.New("unsupported extracted rows format")

// RowSource provides the table rows extracted from an amendment PDF.
// Geometry and OCR are handled by the extractor behind the interface; the
// rows come back flattened across pages.
type RowSource interface {
	Rows(ctx context.Context, pdfURL string) ([][]string, error)
}

// DirRowSource reads rows extracted ahead of time into a directory. The
// rows of https://host/path/NAME.pdf are stored in Dir/NAME.json, or as an
// HTML table export in Dir/NAME.html when no JSON file exists.
type DirRowSource struct {
	Dir string
}

// Rows implements RowSource.
func (d DirRowSource) Rows(ctx context.Context, pdfURL string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(pdfURL)
	if err != nil {
		return nil, fmt.Errorf("invalid pdf url %q: %w", pdfURL, err)
	}
	base := filepath.Join(d.Dir, strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path)))

	f, err := os.Open(base + ".json")
	if errors.Is(err, os.ErrNotExist) {
		if h, herr := os.Open(base + ".html"); herr == nil {
			defer h.Close()
			return ReadHTMLRows(h)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open extracted rows: %w", err)
	}
	defer f.Close()
	return ReadRows(f)
}

// ReadHTMLRows reads the first table of an HTML export. Spanned cells are
// expanded the way minutes tables are, and empty cells become "".
func ReadHTMLRows(r io.Reader) ([][]string, error) {
	t, err := grid.ParseHTML(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted rows: %w", err)
	}
	g := grid.Reconstruct(t)
	rows := make([][]string, 0, len(g))
	for _, row := range g {
		rows = append(rows, grid.RowCells(row))
	}
	return rows, nil
}

// ReadRows decodes extracted rows from JSON. Both a flat list of rows and a
// list of pages, each a list of rows, are accepted; pages are flattened in
// order. Null cells become empty strings.
func ReadRows(r io.Reader) ([][]string, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode extracted rows: %w", err)
	}

	rows := make([][]string, 0, len(raw))
	for _, item := range raw {
		var row []*string
		if err := json.Unmarshal(item, &row); err == nil {
			rows = append(rows, flatten(row))
			continue
		}
		var page [][]*string
		if err := json.Unmarshal(item, &page); err != nil {
			return nil, ErrRowsFormat
		}
		for _, row := range page {
			rows = append(rows, flatten(row))
		}
	}
	return rows, nil
}

func flatten(row []*string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		if c != nil {
			out[i] = *c
		}
	}
	return out
}

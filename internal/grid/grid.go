package grid

import (
	"strings"

	"github.com/nao1215/quivotequoi/internal/model"
)

// Cell is one explicit cell of a table row.
type Cell struct {
	// Column is the 0-based column the cell starts at.
	Column int

	// Text is the cell content.
	Text string

	// ColSpan is the number of columns the cell covers. Values below 2 mean no span.
	ColSpan int

	// RowSpan is the number of rows the cell covers. Values below 2 mean no span.
	RowSpan int
}

// Table describes span-encoded table markup.
type Table struct {
	// Columns is the declared column count.
	Columns int

	// Rows holds the explicit cells of each row. Cells need not be sorted.
	Rows [][]Cell
}

// carry is a row-span value still owed to the rows below.
type carry struct {
	remaining int
	value     string
}

// Reconstruct flattens the table into a dense grid of Columns cells per row.
//
// For each row, columns are scanned left to right. An explicit cell emits
// its text; on rows after the first a column span of N also emits N-1 nil
// cells for the columns it covers, and a row span of M registers the value
// for the M-1 rows below. A column without an explicit cell emits its
// carried value if one is pending, and nil otherwise.
func Reconstruct(t Table) model.Grid {
	grid := make(model.Grid, 0, len(t.Rows))
	pending := make(map[int]*carry)

	for r, cells := range t.Rows {
		byColumn := make(map[int]Cell, len(cells))
		for _, c := range cells {
			if _, dup := byColumn[c.Column]; !dup {
				byColumn[c.Column] = c
			}
		}

		row := make([]*string, 0, t.Columns)
		for col := 0; col < t.Columns; col++ {
			cell, ok := byColumn[col]
			if !ok {
				if p, found := pending[col]; found {
					row = append(row, model.Ptr(p.value))
					p.remaining--
					if p.remaining == 0 {
						delete(pending, col)
					}
					continue
				}
				row = append(row, nil)
				continue
			}

			row = append(row, model.Ptr(cell.Text))
			delete(pending, col)
			if cell.RowSpan > 1 {
				pending[col] = &carry{remaining: cell.RowSpan - 1, value: cell.Text}
			}
			// The header row keeps its own layout: spans there only label
			// the columns below.
			if cell.ColSpan > 1 && r > 0 {
				for i := 1; i < cell.ColSpan && col+1 < t.Columns; i++ {
					col++
					row = append(row, nil)
				}
			}
		}
		grid = append(grid, row)
	}

	return grid
}

// Records converts a grid to header-keyed rows. The first grid row is the
// header; columns whose header is nil or empty are dropped. An empty grid
// yields an empty result.
func Records(g model.Grid) []model.Row {
	if len(g) == 0 {
		return []model.Row{}
	}

	header := make([]string, len(g[0]))
	for i, name := range g[0] {
		header[i] = HeaderName(model.Deref(name))
	}

	records := make([]model.Row, 0, len(g)-1)
	for _, cells := range g[1:] {
		rec := make(model.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			var v *string
			if i < len(cells) {
				v = cells[i]
			}
			rec[name] = v
		}
		records = append(records, rec)
	}
	return records
}

// HeaderName normalizes a header cell: tabs are removed and surrounding
// whitespace is trimmed.
func HeaderName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\t", ""))
}

// RowCells returns the cells of a grid row as plain strings, nil becoming "".
func RowCells(row []*string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = model.Deref(c)
	}
	return out
}

package grid

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/quivotequoi/internal/xmltree"
)

// ParseXML reads a minutes export document and returns the first TABLE
// element below its root as a Table.
func ParseXML(r io.Reader) (Table, error) {
	root, err := xmltree.Parse(r)
	if err != nil {
		return Table{}, err
	}
	el := root
	if el.Name != "TABLE" {
		el = root.Find("//TABLE")
	}
	if el == nil {
		return Table{}, ErrNoTable
	}
	return FromXML(el)
}

// FromXML converts a minutes export TABLE element.
//
// The column count comes from COLGROUP/@COLNB. Each TBODY/TR holds TD cells
// naming their column as COLNAME="Cn" (1-based). Cell text is every text
// chunk of the cell joined by single spaces, with non-breaking spaces
// replaced by plain ones.
func FromXML(table *xmltree.Node) (Table, error) {
	if table == nil {
		return Table{}, ErrNoTable
	}
	colnb, _ := table.Find("COLGROUP").Attr("COLNB")
	columns, err := strconv.Atoi(strings.TrimSpace(colnb))
	if err != nil || columns < 1 {
		return Table{}, fmt.Errorf("%w: %q", ErrColumnCount, colnb)
	}

	t := Table{Columns: columns}
	for _, tr := range table.FindAll("TBODY/TR") {
		var cells []Cell
		for _, td := range tr.Children {
			if td.Name != "TD" {
				continue
			}
			name, _ := td.Attr("COLNAME")
			col, err := strconv.Atoi(strings.TrimPrefix(name, "C"))
			if err != nil || col < 1 || col > columns {
				continue
			}
			cells = append(cells, Cell{
				Column:  col - 1,
				Text:    strings.ReplaceAll(strings.Join(td.Texts(), " "), "\u00a0", " "),
				ColSpan: spanAttr(td.Attrs["COLSPAN"]),
				RowSpan: spanAttr(td.Attrs["ROWSPAN"]),
			})
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// ParseHTML reads the first <table> of an HTML document.
//
// HTML cells carry no column name, so columns are assigned by occupancy:
// a cell starts at the first column of its row not already covered by a
// row span from above or a column span to its left. The column count is
// the widest row.
func ParseHTML(r io.Reader) (Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to parse html: %w", err)
	}
	table := findElement(doc, atom.Table)
	if table == nil {
		return Table{}, ErrNoTable
	}

	var (
		t        Table
		occupied = make(map[int]int) // column -> rows still covered
	)
	for _, tr := range rowsOf(table) {
		covered := make(map[int]bool, len(occupied))
		for col, n := range occupied {
			if n > 0 {
				covered[col] = true
			}
		}

		var cells []Cell
		col := 0
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
				continue
			}
			for covered[col] {
				col++
			}
			cell := Cell{
				Column:  col,
				Text:    strings.ReplaceAll(strings.TrimSpace(textOf(c)), "\u00a0", " "),
				ColSpan: spanAttr(attrOf(c, "colspan")),
				RowSpan: spanAttr(attrOf(c, "rowspan")),
			}
			cells = append(cells, cell)

			width := max(cell.ColSpan, 1)
			for i := range width {
				covered[col+i] = true
				if cell.RowSpan > 1 {
					occupied[col+i] = cell.RowSpan
				}
			}
			col += width
		}
		if col > t.Columns {
			t.Columns = col
		}
		for k := range covered {
			if k+1 > t.Columns {
				t.Columns = k + 1
			}
		}
		for k, n := range occupied {
			if n <= 1 {
				delete(occupied, k)
				continue
			}
			occupied[k] = n - 1
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func spanAttr(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// rowsOf returns the rows of a table, looking through thead, tbody and tfoot.
func rowsOf(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			rows = append(rows, c)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.DataAtom == atom.Tr {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

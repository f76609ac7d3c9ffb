package report

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableWriter outputs run summaries as a terminal table.
type TableWriter struct {
	baseWriter
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer) *TableWriter {
	return &TableWriter{baseWriter: newBaseWriter(output)}
}

// WriteSummary renders one row per sitting and a totals footer.
func (w *TableWriter) WriteSummary(summary *Summary) (int, error) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Sitting", "Minutes", "Roll-calls", "Merged", "Referrals", "Votes", "Error"})

	for _, ss := range summary.Sittings {
		tw.AppendRow(table.Row{ss.Sitting, ss.Minutes, ss.RollCalls, ss.Merged, ss.Synthetic, ss.Votes, truncateString(ss.Error, 40)})
	}

	totals := summary.Totals()
	tw.AppendFooter(table.Row{strconv.Itoa(len(summary.Sittings)) + " sittings", totals.Minutes, totals.RollCalls, totals.Merged, totals.Synthetic, totals.Votes, ""})

	configs := make([]table.ColumnConfig, 0, 5)
	for n := 2; n <= 6; n++ {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	return io.WriteString(w.output, tw.Render()+"\n")
}

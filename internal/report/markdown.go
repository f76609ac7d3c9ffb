package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteSummary outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSittings(md, summary)
	w.writeSources(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information and the outcome alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	totals := summary.Totals()

	md.H1("Vote Extraction Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + summary.RunID + "`"},
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Sittings", strconv.Itoa(len(summary.Sittings))},
			{"Votes", strconv.Itoa(totals.Votes)},
		},
	})
	md.PlainText("")

	switch failed := summary.Failed(); {
	case failed > 0:
		md.Warningf("%d sitting(s) could not be extracted. Their votes are missing from the output.", failed)
	case totals.Votes == 0:
		md.Note("No votes were published for the requested sittings.")
	default:
		md.Tip("All sittings were extracted.")
	}
	md.PlainText("")
}

// writeSittings writes one table row per sitting.
func (w *MarkdownWriter) writeSittings(md *markdown.Markdown, summary *Summary) {
	md.H2("Sittings")
	md.PlainText("")

	if len(summary.Sittings) == 0 {
		md.PlainText("No sittings processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary.Sittings))
	for _, ss := range summary.Sittings {
		status := "✅"
		if ss.Error != "" {
			status = "❌ " + truncateString(ss.Error, 60)
		}
		rows = append(rows, []string{
			ss.Sitting,
			strconv.Itoa(ss.Days - ss.SkippedDays),
			strconv.Itoa(ss.Minutes),
			strconv.Itoa(ss.RollCalls),
			strconv.Itoa(ss.Votes),
			strconv.Itoa(ss.Synthetic),
			status,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Sitting", "Days", "Minutes", "Roll-calls", "Votes", "Referrals", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSources writes a mermaid pie chart of where the votes came from.
func (w *MarkdownWriter) writeSources(md *markdown.Markdown, summary *Summary) {
	totals := summary.Totals()
	if totals.Votes == 0 {
		return
	}

	md.H2("Record Sources")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Vote Record Sources"),
		piechart.WithShowData(true),
	)
	for _, part := range []struct {
		label string
		count int
	}{
		{"Merged", totals.Merged},
		{"Minutes only", totals.MinutesOnly},
		{"Roll-call only", totals.RollCallOnly},
		{"Referrals", totals.Synthetic},
	} {
		if part.count > 0 {
			chart.LabelAndIntValue(part.label, uint64(part.count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [quivotequoi](https://github.com/nao1215/quivotequoi)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// Package report provides output of extracted records and run summaries.
//
// This package contains writers for different output formats:
//   - CSVWriter: the flat vote, amendment, document and attendance files
//   - JSONWriter: vote records and run summaries for tool integration
//   - MarkdownWriter: a run summary for sharing
//   - TableWriter: a run summary for terminal display
//
// Design decision: We separate report writing from the data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
//
// Summary writers implement the SummaryWriter interface, allowing them to
// be used interchangeably and composed for multi-format output.
package report

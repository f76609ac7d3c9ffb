package report

import (
	"io"
)

// SummaryWriter defines the interface for run summary output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same
// API.
type SummaryWriter interface {
	// WriteSummary outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	WriteSummary(summary *Summary) (int, error)
}

// MultiWriter writes to multiple SummaryWriters.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []SummaryWriter
}

// NewMultiWriter creates a SummaryWriter that writes to all provided writers.
func NewMultiWriter(writers ...SummaryWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteSummary outputs the summary to all configured writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteSummary(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

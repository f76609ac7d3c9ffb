package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/quivotequoi/internal/model"
)

// JSONWriter renders votes and run summaries as JSON, one document per
// call followed by a newline. It is the summary format used when stdout is
// not a terminal.
type JSONWriter struct {
	baseWriter

	// prefix and indent are passed to json.MarshalIndent. Leaving both
	// empty gives compact output.
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting with
// prefix.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter returns a JSONWriter writing to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteVotes writes votes as an array. A nil slice is written as [].
func (w *JSONWriter) WriteVotes(votes []model.Vote) (int, error) {
	if votes == nil {
		votes = []model.Vote{}
	}
	return w.write(votes)
}

// WriteSummary writes the run summary as an object.
func (w *JSONWriter) WriteSummary(summary *Summary) (int, error) {
	return w.write(summary)
}

func (w *JSONWriter) write(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent == "" && w.prefix == "" {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, w.prefix, w.indent)
	}
	if err != nil {
		return 0, err
	}
	return w.output.Write(append(data, '\n'))
}

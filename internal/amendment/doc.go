// Package amendment segments rows extracted from tabled-amendment documents
// into amendment records.
//
// Amendment documents are laid out in two columns: the text proposed by the
// original document on the left and the amended text on the right. A table
// extractor flattens every page into rows of cells; the Segmenter walks those
// rows with a small state machine:
//
//	SeekingMarker --"Amendment" in column 1--> CapturingBody
//	CapturingBody --"Justification" or link--> SeekingMarker
//	any state     --"Amendment N" in column 0--> SeekingMarker (new record)
//
// The in-progress record lives in an explicit Accumulator, so a caller can
// drive the machine row by row with Step and Flush, or consume the lazy
// sequence returned by Segment.
package amendment

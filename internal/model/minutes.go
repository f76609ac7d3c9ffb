package model

import "time"

// Paragraph is one <p> element of the published minutes.
type Paragraph struct {
	// Block identifies the parent element. Paragraphs sharing a Block are siblings.
	Block int

	// Text is the full text content of the paragraph.
	Text string

	// Fragments are the trimmed, non-empty text nodes of the paragraph.
	Fragments []string
}

// MinutesText is the paragraph list of the minutes of one sitting day.
type MinutesText struct {
	Date       time.Time
	URL        string
	Paragraphs []Paragraph
}

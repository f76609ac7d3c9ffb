// Package reference extracts document, procedure and location identifiers
// from free text.
//
// Every extractor returns nil when nothing matches; none of them fails.
package reference

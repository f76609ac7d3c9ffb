// Package model defines the core data structures shared by the extraction
// and reconciliation packages.
//
// This package contains the following main types:
//   - Grid and Row: tables reconstructed from span-encoded markup
//   - Amendment: an amendment segmented out of a scanned document
//   - Vote: a vote line from the minutes, a roll-call record, or both merged
//   - JoinKey: the identity used to pair minutes and roll-call records
//   - Sitting: a plenary session and the calendar days it covers
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The parsers (grid, votes, amendment), the reconciler and the
// report writers all need these types.
//
// The models are designed to be serializable to JSON for report output.
package model

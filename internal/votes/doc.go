// Package votes reads vote records from the published vote results.
//
// Minutes-sourced records come from the results annex of the minutes,
// published in one of two XML schemas depending on the sitting date:
//
//   - Legacy: Vote.Results/Vote.Result entries, each with a description and
//     a span-encoded results TABLE.
//   - Current: votes/vote entries with typed voting children.
//
// Schema is the tagged variant selecting between LegacyParser and
// CurrentParser; both produce the same model.Vote shape. Roll-call records
// come from the roll-call results document and are read by RollCallParser.
//
// Every parser takes a ParseContext holding the per-sitting dedup set. The
// context is owned by one sitting and must not be shared across goroutines.
package votes

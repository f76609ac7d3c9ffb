// Package reconcile merges the minutes-sourced and roll-call-sourced vote
// records of one sitting into a single list.
//
// Both inputs describe the same votes from different documents. Records are
// matched on model.JoinKey with a hash join: the roll-call side is indexed,
// the minutes side probes the index, and records without a counterpart pass
// through. A join key repeated within one input means the sources disagree
// about what was voted; that aborts the sitting with a DuplicateKeyError
// instead of guessing a pairing.
//
// After the join, referrals to committee that appear only in the minutes
// text are added as synthetic RETURN records.
package reconcile

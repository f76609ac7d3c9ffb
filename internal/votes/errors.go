package votes

import "errors"

var (
	// ErrUnexpectedRoot is returned when a document does not have the
	// structure of the schema it was dispatched to.
	ErrUnexpectedRoot = errors.New("unexpected vote results structure")

	// ErrNoDedupSet is returned when a ParseContext carries no dedup set.
	ErrNoDedupSet = errors.New("parse context has no dedup set")
)

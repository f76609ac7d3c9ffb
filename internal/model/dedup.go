package model

import "strings"

// DedupSet remembers the rows and roll-call identifiers already emitted for
// one sitting. Vote tables of a document can appear again on a later day of
// the same session; the set stops those rows from being emitted twice.
//
// A DedupSet is not safe for concurrent use. Each sitting owns its own set.
type DedupSet struct {
	seen map[string]struct{}
}

// NewDedupSet returns an empty set.
func NewDedupSet() *DedupSet {
	return &DedupSet{seen: make(map[string]struct{})}
}

// Add records key and reports whether it was new.
func (d *DedupSet) Add(key string) bool {
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// AddRow records a raw table row, prefixed with its document reference.
func (d *DedupSet) AddRow(doc string, cells []string) bool {
	return d.Add("row\x1f" + doc + "\x1f" + strings.Join(cells, "\x1f"))
}

// AddRollCall records a roll-call identifier.
func (d *DedupSet) AddRollCall(id string) bool {
	return d.Add("rcv\x1f" + id)
}

// Len returns the number of recorded keys.
func (d *DedupSet) Len() int {
	return len(d.seen)
}

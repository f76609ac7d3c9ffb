// Package classify maps the free-text subject of a vote to a vote type.
//
// Classification is an ordered rule table: the first rule whose predicate
// holds decides the outcome. Rules are plain values so each one can be
// tested on its own, and Classify never fails: a subject no rule
// recognises is typed IGNORE and left for the caller to drop.
//
// The package also parses the author and result columns of the minutes
// tables.
package classify

// Package calendar reads the plenary session calendar of a parliamentary
// term and turns it into the sittings to extract.
//
// A session is listed with its first and last day. Every calendar day from
// the first to the last day that falls inside the term becomes a vote day
// of the sitting; sessions with no day inside the term are dropped.
package calendar

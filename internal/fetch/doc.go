// Package fetch retrieves the published minutes, roll-call results and
// document pages over HTTP.
//
// Client performs single GET requests with a read-through response cache.
// Pool runs many fetches concurrently with a bounded number of workers and
// returns one Result per input key, in input order. A failed fetch never
// aborts the other fetches of a Pool: it becomes a Result whose Err is set.
//
// Design decision: Fetch failures are values rather than errors because:
// 1. A missing document must not hide the documents that were published
// 2. Callers decide per item whether to skip, fall back or fail
// 3. The output order stays deterministic regardless of scheduling
package fetch

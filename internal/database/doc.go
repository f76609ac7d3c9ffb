// Package database provides the SQLite response cache of quivotequoi.
//
// Every document fetched from the legislature's site is stored with its
// status, content type and body, keyed by the SHA3-256 digest of its
// address. Later runs read published minutes and documents from the cache
// instead of fetching them again.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. No external dependencies - the cache is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode lets concurrent fetch workers read while one writes
package database

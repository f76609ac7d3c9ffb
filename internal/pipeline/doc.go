// Package pipeline runs the extraction of plenary sittings.
//
// A sitting is processed by a Pipeline of Steps: the minutes results
// tables, the roll-call results and the minutes text are fetched and parsed
// for every vote day, then the two record lists are reconciled. Each step
// receives the sitting's model.SittingRun and adds to it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running runs
//
// BatchProcessor runs the pipelines of many sittings concurrently using
// errgroup. Every sitting owns its dedup set, so pipelines share no state.
// DocumentBatch resolves the documents referenced by votes and extracts
// their tabled amendments.
package pipeline

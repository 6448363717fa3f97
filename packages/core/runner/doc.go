// Package runner executes an ordered list of steps against shared session state.
//
// It provides functionality for:
//   - Running steps strictly in order, exactly once each
//   - Skipping steps whose prerequisite session values are unset
//   - Converting step errors into failed results
//   - Aborting the run when a bootstrap step fails
//   - Reporting progress to observers and recording latency
//
// There is no retry and no parallelism: the result recorded for step N is
// the outcome of the single call step N made.
package runner

// Package output renders run results.
//
// Supported formats:
//   - Console: colored progress and summary on the terminal
//   - JSON: the detailed results artifact
//   - JUnit: JUnit XML for CI integration
//   - Prometheus: text exposition format for the node_exporter textfile collector
//
// The console formatter also implements runner.Observer so steps are
// printed as they execute. File formats accumulate a run with
// FormatResult and write it on Flush.
package output

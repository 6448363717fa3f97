// Package cmd implements the rentalsmoke CLI commands using Cobra.
//
// Available commands:
//   - (root): Run the smoke suite against a backend
//   - history: Show recent runs recorded in the history database
//   - init: Write a starter .rentalsmoke.yaml
//   - version: Show version information
package cmd

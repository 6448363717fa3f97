// Package http provides the HTTP client used by rentalsmoke steps.
//
// It wraps the standard library's http package with additional features:
//   - Configurable client and per-request timeouts
//   - Redirect handling
//   - Bearer authentication and JSON request bodies
//   - Optional request pacing through a token bucket
//   - Fully read responses that outlive the connection
package http

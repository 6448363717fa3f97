// Package capture extracts values from HTTP responses for use in later steps.
//
// Values are addressed with gjson paths (data.accessToken, data.variants.0.id)
// and returned as strings so that numeric and string identifiers are carried
// the same way.
package capture

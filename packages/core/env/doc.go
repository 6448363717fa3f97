// Package env reads settings from the process environment and .env files.
//
// It provides functionality for:
//   - Parsing .env files (KEY=value, quoted values, comments)
//   - Exporting .env values without overriding variables already set
//   - Collecting prefixed variables such as RENTALSMOKE_BASE_URL
package env

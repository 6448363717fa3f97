// Package config handles configuration loading for rentalsmoke.
//
// It provides functionality for:
//   - Loading .rentalsmoke.yaml or rentalsmoke.yaml files
//   - Default configuration values
//   - RENTALSMOKE_* environment overrides
package config

// Package config handles configuration loading for the httpwire CLI.
//
// It provides functionality for:
//   - Loading configuration from .httpwire.config.json files
//   - Default configuration values
package config

// Package cmd implements the httpwire CLI commands using Cobra.
//
// Available commands:
//   - get: Fetch a URL and write the body to stdout or a file
//   - head: Send a HEAD request and print the response headers
//   - version: Show httpwire version information
//
// The CLI supports flags for timeouts, redirect behavior, TLS
// validation, JSON body queries and verbose request tracing.
package cmd

package cmd

import "github.com/abdul-hamid-achik/httpwire/packages/httperr"

// Exit codes for the httpwire CLI
const (
	// ExitSuccess indicates the request completed
	ExitSuccess = 0

	// ExitInvalidURL indicates a malformed URL argument
	ExitInvalidURL = 2

	// ExitProtocolError indicates the server sent a malformed response
	ExitProtocolError = 3

	// ExitNetworkError indicates a connect/read/write failure
	ExitNetworkError = 4

	// ExitTimeout indicates the connect or read timeout was exceeded
	ExitTimeout = 5

	// ExitRedirectError indicates the redirect limit was exceeded
	ExitRedirectError = 6

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitCodeFor maps typed client errors onto CLI exit codes.
func exitCodeFor(err error) int {
	kind, ok := httperr.KindOf(err)
	if !ok {
		return ExitNetworkError
	}
	switch kind {
	case httperr.InvalidURI:
		return ExitInvalidURL
	case httperr.MalformedResponse, httperr.TruncatedBody:
		return ExitProtocolError
	case httperr.Timeout:
		return ExitTimeout
	case httperr.TooManyRedirects:
		return ExitRedirectError
	default:
		return ExitNetworkError
	}
}

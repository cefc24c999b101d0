package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell configuration mistakes
// from network failures, protocol violations and exceeded limits.
type Kind int

const (
	// InvalidURI means the request URL or a redirect Location could not
	// be parsed as an absolute http/https URI.
	InvalidURI Kind = iota

	// Transport means the stream collaborator failed to connect, read
	// or write.
	Transport

	// Timeout means the connect or read timeout was exceeded.
	Timeout

	// MalformedResponse means the server sent a response the parser
	// rejects: bad status line, bad header syntax, bad chunk syntax or
	// an invalid Content-Length.
	MalformedResponse

	// TruncatedBody means the stream closed before a fixed-length body
	// completed.
	TruncatedBody

	// TooManyRedirects means the redirect chain exceeded the configured
	// maximum.
	TooManyRedirects
)

func (k Kind) String() string {
	switch k {
	case InvalidURI:
		return "invalid URI"
	case Transport:
		return "transport error"
	case Timeout:
		return "timeout"
	case MalformedResponse:
		return "malformed response"
	case TruncatedBody:
		return "truncated body"
	case TooManyRedirects:
		return "too many redirects"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is the typed error returned by every httpwire operation.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "dial", "read status line"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error with a message instead of a wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// Newf is New with formatting.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind and operation to an underlying error. If err is
// already an *Error its kind is preserved.
func Wrap(kind Kind, op string, err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		kind = he.Kind
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of err, if err carries one.
func KindOf(err error) (Kind, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

package client

// Trace carries optional observability hooks fired during an execution.
// Nil hooks are skipped; a zero Trace is valid.
type Trace struct {
	// ConnectStart fires before dialing addr (host:port).
	ConnectStart func(addr string, tls bool)
	// ConnectDone fires after the dial attempt with its outcome.
	ConnectDone func(addr string, err error)
	// WroteRequest fires once the full request has been written.
	WroteRequest func(method, target string)
	// GotResponse fires after the status line and headers are parsed.
	GotResponse func(status int, reason string)
	// Redirect fires when the executor follows a Location header.
	Redirect func(from, to string)
}

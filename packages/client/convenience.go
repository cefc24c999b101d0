package client

import "io"

// Get issues a GET with a default client, streaming the body into sink
// when it is non-nil.
func Get(rawURL string, sink io.Writer) (*Response, error) {
	return NewClient().Get(rawURL, sink)
}

// Head issues a HEAD with a default client.
func Head(rawURL string) (*Response, error) {
	return NewClient().Head(rawURL)
}

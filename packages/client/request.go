package client

import (
	"time"

	"github.com/abdul-hamid-achik/httpwire/packages/header"
)

// Request describes one HTTP exchange. Build it with the fluent setters
// and hand it, read-only, to Client.Do; the client never mutates it.
type Request struct {
	Method  string
	URL     string
	Headers *header.Headers
	Body    []byte

	// ConnectTimeout and ReadTimeout override the client's defaults
	// when non-zero.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// NewRequest returns a request for the given method and absolute URL.
func NewRequest(method, rawURL string) *Request {
	return &Request{
		Method:  method,
		URL:     rawURL,
		Headers: header.New(),
	}
}

// SetHeader replaces any header with the same name.
func (r *Request) SetHeader(key, value string) *Request {
	r.Headers.Set(key, value)
	return r
}

// AddHeader appends a header, keeping existing ones with the same name.
func (r *Request) AddHeader(key, value string) *Request {
	r.Headers.Add(key, value)
	return r
}

// SetBody sets the request body. Content-Length is computed at write
// time from the exact byte length.
func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

// SetConnectTimeout bounds connection establishment for this request.
func (r *Request) SetConnectTimeout(d time.Duration) *Request {
	r.ConnectTimeout = d
	return r
}

// SetReadTimeout bounds each transport read for this request.
func (r *Request) SetReadTimeout(d time.Duration) *Request {
	r.ReadTimeout = d
	return r
}

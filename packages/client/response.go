package client

import (
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/httpwire/packages/header"
)

// Response is the terminal result of one execution. It is immutable
// once returned. Body is empty when the body was streamed into a
// caller-supplied sink.
type Response struct {
	StatusCode int
	Reason     string
	Proto      string
	Headers    *header.Headers
	Body       []byte
	Duration   time.Duration
}

// Status returns the code and reason phrase, e.g. "200 OK".
func (r *Response) Status() string {
	if r.Reason == "" {
		return strconv.Itoa(r.StatusCode)
	}
	return strconv.Itoa(r.StatusCode) + " " + r.Reason
}

// Header returns the first value of the named header, case-insensitive.
func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) ContentType() string {
	return r.Headers.Get("Content-Type")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

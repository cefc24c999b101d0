package client

import (
	"context"
	"crypto/tls"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/httpwire/packages/header"
	"github.com/abdul-hamid-achik/httpwire/packages/httperr"
	"github.com/abdul-hamid-achik/httpwire/packages/stream"
	"github.com/abdul-hamid-achik/httpwire/packages/uri"
	"github.com/abdul-hamid-achik/httpwire/packages/wire"
)

const (
	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultReadTimeout bounds each transport read.
	DefaultReadTimeout = 30 * time.Second
	// DefaultMaxRedirects is the redirect hop limit.
	DefaultMaxRedirects = 8
	// DefaultUserAgent is sent when the caller sets no User-Agent.
	DefaultUserAgent = "httpwire/1.0"
)

// Client executes requests: connect, write, read, optional redirect
// loop. Each execution owns its stream exclusively and closes it before
// returning; nothing is shared across concurrent executions.
type Client struct {
	provider        stream.Provider
	connectTimeout  time.Duration
	readTimeout     time.Duration
	maxRedirects    int
	followRedirects bool
	validateSSL     bool
	tlsConfig       *tls.Config
	defaultHeaders  *header.Headers
	userAgent       string
	requestID       bool
	trace           *Trace
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		connectTimeout:  DefaultConnectTimeout,
		readTimeout:     DefaultReadTimeout,
		maxRedirects:    DefaultMaxRedirects,
		followRedirects: true,
		validateSSL:     true,
		defaultHeaders:  header.New(),
		userAgent:       DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.provider == nil {
		cfg := c.tlsConfig
		if !c.validateSSL {
			if cfg == nil {
				cfg = &tls.Config{}
			} else {
				cfg = cfg.Clone()
			}
			cfg.InsecureSkipVerify = true
		}
		c.provider = &stream.NetProvider{TLSConfig: cfg}
	}

	return c
}

// WithConnectTimeout bounds connection establishment.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.connectTimeout = d }
}

// WithReadTimeout bounds each transport read.
func WithReadTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.readTimeout = d }
}

// WithTimeout sets both the connect and read timeouts.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.connectTimeout = d
		c.readTimeout = d
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) { c.maxRedirects = max }
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) { c.followRedirects = follow }
}

// WithValidateSSL enables or disables certificate validation.
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) { c.validateSSL = validate }
}

// WithTLSConfig injects TLS configuration for the default provider.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *Client) { c.tlsConfig = cfg }
}

// WithProvider replaces the stream provider entirely.
func WithProvider(p stream.Provider) ClientOption {
	return func(c *Client) { c.provider = p }
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) { c.defaultHeaders.Set(key, value) }
}

// WithDefaultHeaders sets multiple default headers for all requests.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders.Set(k, v)
		}
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithRequestID stamps a fresh X-Request-Id header on every execution.
func WithRequestID(enabled bool) ClientOption {
	return func(c *Client) { c.requestID = enabled }
}

// WithTrace installs observability hooks for the execution phases.
func WithTrace(t *Trace) ClientOption {
	return func(c *Client) { c.trace = t }
}

// Do executes the request and buffers the response body.
func (c *Client) Do(req *Request) (*Response, error) {
	return c.send(req, nil)
}

// DoSink executes the request, streaming the body into sink while still
// returning status and headers.
func (c *Client) DoSink(req *Request, sink io.Writer) (*Response, error) {
	return c.send(req, sink)
}

// Get issues a GET. When sink is non-nil the body is streamed into it
// and Response.Body stays empty.
func (c *Client) Get(rawURL string, sink io.Writer) (*Response, error) {
	return c.send(NewRequest("GET", rawURL), sink)
}

// Head issues a HEAD; the response never carries a body.
func (c *Client) Head(rawURL string) (*Response, error) {
	return c.send(NewRequest("HEAD", rawURL), nil)
}

// Post issues a POST with the given body.
func (c *Client) Post(rawURL string, body []byte) (*Response, error) {
	return c.send(NewRequest("POST", rawURL).SetBody(body), nil)
}

var redirectCodes = map[int]bool{301: true, 302: true, 303: true, 307: true, 308: true}

func (c *Client) send(req *Request, sink io.Writer) (*Response, error) {
	u, err := uri.Parse(req.URL)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = "GET"
	}
	body := req.Body

	hdrs := mergeHeaders(c.defaultHeaders, req.Headers)
	if !hdrs.Has("User-Agent") && c.userAgent != "" {
		hdrs.Set("User-Agent", c.userAgent)
	}
	if !hdrs.Has("Connection") {
		hdrs.Set("Connection", "close")
	}
	if c.requestID {
		hdrs.Set("X-Request-Id", uuid.NewString())
	}

	connectTO := req.ConnectTimeout
	if connectTO == 0 {
		connectTO = c.connectTimeout
	}
	readTO := req.ReadTimeout
	if readTO == 0 {
		readTO = c.readTimeout
	}

	start := time.Now()
	for hop := 0; ; hop++ {
		res, location, err := c.roundTrip(method, u, hdrs, body, sink, connectTO, readTO)
		if err != nil {
			return nil, err
		}
		if location == "" {
			res.Duration = time.Since(start)
			return res, nil
		}
		if hop >= c.maxRedirects {
			return nil, httperr.Newf(httperr.TooManyRedirects, "redirect", "stopped after %d redirects", c.maxRedirects)
		}
		next, err := resolveLocation(u, location)
		if err != nil {
			return nil, err
		}
		if c.trace != nil && c.trace.Redirect != nil {
			c.trace.Redirect(u.String(), next.String())
		}
		switch res.StatusCode {
		case 301, 302, 303:
			// Common client convention: downgrade to GET and drop the
			// body. 307/308 preserve both.
			if method != "HEAD" {
				method = "GET"
			}
			body = nil
		}
		u = next
	}
}

// roundTrip performs one connect-write-read cycle. The stream is closed
// on every exit path. A non-empty location return means the caller
// should follow a redirect; the intermediate body has been drained and
// discarded.
func (c *Client) roundTrip(method string, u *uri.URI, hdrs *header.Headers, body []byte, sink io.Writer, connectTO, readTO time.Duration) (*Response, string, error) {
	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if connectTO > 0 {
		ctx, cancel = context.WithTimeout(ctx, connectTO)
	}
	if c.trace != nil && c.trace.ConnectStart != nil {
		c.trace.ConnectStart(u.Addr(), u.IsTLS())
	}
	st, err := c.provider.Dial(ctx, u.Hostname(), u.Port, u.IsTLS())
	cancel()
	if c.trace != nil && c.trace.ConnectDone != nil {
		c.trace.ConnectDone(u.Addr(), err)
	}
	if err != nil {
		return nil, "", err
	}
	defer st.Close()

	if err := wire.WriteRequest(st, method, u, hdrs, body); err != nil {
		return nil, "", err
	}
	if c.trace != nil && c.trace.WroteRequest != nil {
		c.trace.WroteRequest(method, u.Resource())
	}

	var r io.Reader = st
	if readTO > 0 {
		r = &deadlineReader{s: st, timeout: readTO}
	}
	p := wire.NewParser(r)
	head, err := p.ReadHead()
	if err != nil {
		return nil, "", err
	}
	if c.trace != nil && c.trace.GotResponse != nil {
		c.trace.GotResponse(head.StatusCode, head.Reason)
	}

	br, err := p.Body(method)
	if err != nil {
		return nil, "", err
	}

	res := &Response{
		StatusCode: head.StatusCode,
		Reason:     head.Reason,
		Proto:      head.Proto,
		Headers:    head.Headers,
	}

	if c.followRedirects && redirectCodes[head.StatusCode] {
		if loc := head.Headers.Get("Location"); loc != "" {
			if _, err := io.Copy(io.Discard, br); err != nil {
				return nil, "", err
			}
			return res, loc, nil
		}
	}

	if sink != nil {
		if _, err := io.Copy(sink, br); err != nil {
			return nil, "", httperr.Wrap(httperr.Transport, "copy body", err)
		}
	} else {
		b, err := io.ReadAll(br)
		if err != nil {
			return nil, "", err
		}
		res.Body = b
	}
	return res, "", nil
}

// resolveLocation turns a Location header value into the next absolute
// target. Origin-form values resolve against the current hop;
// protocol-relative values inherit its scheme; anything else must parse
// as an absolute URI.
func resolveLocation(cur *uri.URI, loc string) (*uri.URI, error) {
	switch {
	case strings.HasPrefix(loc, "//"):
		return uri.Parse(cur.Scheme + ":" + loc)
	case strings.HasPrefix(loc, "/"):
		return uri.Parse(cur.Scheme + "://" + cur.HostHeader() + loc)
	default:
		return uri.Parse(loc)
	}
}

func mergeHeaders(defaults, overrides *header.Headers) *header.Headers {
	h := defaults.Clone()
	seen := make(map[string]bool)
	for _, e := range overrides.Entries() {
		k := strings.ToLower(e.Name)
		if !seen[k] {
			h.Del(e.Name)
			seen[k] = true
		}
		h.Add(e.Name, e.Value)
	}
	return h
}

// deadlineReader re-arms the read deadline before every transport read,
// so each read is individually bounded rather than the whole response.
type deadlineReader struct {
	s       stream.Stream
	timeout time.Duration
}

func (d *deadlineReader) Read(p []byte) (int, error) {
	_ = d.s.SetReadDeadline(time.Now().Add(d.timeout))
	return d.s.Read(p)
}

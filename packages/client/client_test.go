package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/httpwire/packages/httperr"
	"github.com/abdul-hamid-achik/httpwire/packages/stream"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/test", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	c := NewClient()
	resp, err := c.Get(server.URL+"/test", nil)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Contains(t, resp.BodyString(), "hello")
	assert.True(t, resp.IsSuccess())
}

func TestClient_GetStreamsIntoSink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("streamed body"))
	}))
	defer server.Close()

	var sink bytes.Buffer
	resp, err := NewClient().Get(server.URL, &sink)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "streamed body", sink.String())
	assert.Empty(t, resp.Body)
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, int64(14), r.ContentLength)
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "name=James+Jay", string(b))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	resp, err := NewClient().Post(server.URL, []byte("name=James+Jay"))

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestClient_Head(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "HEAD", r.Method)
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := NewClient().Head(server.URL)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestClient_DefaultRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "close", r.Header.Get("Connection"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
	}))
	defer server.Close()

	c := NewClient(WithDefaultHeader("Authorization", "token-1"))
	_, err := c.Get(server.URL, nil)
	require.NoError(t, err)
}

func TestClient_RequestHeadersOverrideDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
	}))
	defer server.Close()

	req := NewRequest("GET", server.URL).SetHeader("User-Agent", "custom-agent")
	_, err := NewClient().Do(req)
	require.NoError(t, err)
}

func TestClient_RequestID(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-Id")
	}))
	defer server.Close()

	_, err := NewClient(WithRequestID(true)).Get(server.URL, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestClient_FollowsRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/new" {
			_, _ = w.Write([]byte("final"))
			return
		}
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	}))
	defer server.Close()

	resp, err := NewClient().Get(server.URL+"/old", nil)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "final", resp.BodyString())
}

func TestClient_RedirectBodyNotLeakedIntoSink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/new" {
			_, _ = w.Write([]byte("final"))
			return
		}
		http.Redirect(w, r, "/new", http.StatusFound)
	}))
	defer server.Close()

	var sink bytes.Buffer
	_, err := NewClient().Get(server.URL+"/old", &sink)

	require.NoError(t, err)
	assert.Equal(t, "final", sink.String())
}

func TestClient_303DowngradesPostToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/done" {
			assert.Equal(t, "GET", r.Method)
			b, _ := io.ReadAll(r.Body)
			assert.Empty(t, b)
			return
		}
		w.Header().Set("Location", "/done")
		w.WriteHeader(http.StatusSeeOther)
	}))
	defer server.Close()

	req := NewRequest("POST", server.URL+"/submit").SetBody([]byte("payload"))
	resp, err := NewClient().Do(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_307PreservesMethodAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/done" {
			assert.Equal(t, "POST", r.Method)
			b, _ := io.ReadAll(r.Body)
			assert.Equal(t, "payload", string(b))
			return
		}
		w.Header().Set("Location", "/done")
		w.WriteHeader(http.StatusTemporaryRedirect)
	}))
	defer server.Close()

	req := NewRequest("POST", server.URL+"/submit").SetBody([]byte("payload"))
	resp, err := NewClient().Do(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_AbsoluteRedirectAcrossHosts(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("other host"))
	}))
	defer target.Close()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", target.URL+"/landing")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	defer origin.Close()

	resp, err := NewClient().Get(origin.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "other host", resp.BodyString())
}

func TestClient_TooManyRedirects(t *testing.T) {
	hops := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", hops), http.StatusFound)
	}))
	defer server.Close()

	_, err := NewClient(WithMaxRedirects(8)).Get(server.URL, nil)

	require.Error(t, err)
	assert.True(t, httperr.Is(err, httperr.TooManyRedirects), "got %v", err)
	assert.Equal(t, 9, hops)
}

func TestClient_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer server.Close()

	resp, err := NewClient(WithFollowRedirects(false)).Get(server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.True(t, resp.IsRedirect())
	assert.Equal(t, "/elsewhere", resp.Header("Location"))
}

func TestClient_InvalidURL(t *testing.T) {
	_, err := NewClient().Get("not-a-url", nil)

	require.Error(t, err)
	assert.True(t, httperr.Is(err, httperr.InvalidURI))
}

func TestClient_TLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer server.Close()

	resp, err := NewClient(WithValidateSSL(false)).Get(server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "secure", resp.BodyString())
}

// rawServer answers every connection with a fixed payload, ignoring the
// request, then closes.
func rawServer(t *testing.T, payload string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				buf := make([]byte, 4096)
				_, _ = c.Read(buf)
				_, _ = c.Write([]byte(payload))
				_ = c.Close()
			}(conn)
		}
	}()
	return "http://" + ln.Addr().String()
}

func TestClient_MalformedStatusLine(t *testing.T) {
	url := rawServer(t, "GARBAGE\r\n\r\n")

	_, err := NewClient().Get(url, nil)

	require.Error(t, err)
	assert.True(t, httperr.Is(err, httperr.MalformedResponse), "got %v", err)
}

func TestClient_TruncatedBody(t *testing.T) {
	url := rawServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\n0123456")

	_, err := NewClient().Get(url, nil)

	require.Error(t, err)
	assert.True(t, httperr.Is(err, httperr.TruncatedBody), "got %v", err)
}

func TestClient_ChunkedResponse(t *testing.T) {
	url := rawServer(t, "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n"+
		"5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n")

	resp, err := NewClient().Get(url, nil)

	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.BodyString())
}

func TestClient_UntilCloseBody(t *testing.T) {
	url := rawServer(t, "HTTP/1.1 200 OK\r\nServer: ancient\r\n\r\nno framing at all")

	resp, err := NewClient().Get(url, nil)

	require.NoError(t, err)
	assert.Equal(t, "no framing at all", resp.BodyString())
}

// countingProvider wraps another provider and counts stream closes.
type countingProvider struct {
	inner stream.Provider

	mu     sync.Mutex
	opened int
	closed int
}

func (p *countingProvider) Dial(ctx context.Context, host string, port int, useTLS bool) (stream.Stream, error) {
	s, err := p.inner.Dial(ctx, host, port, useTLS)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.opened++
	p.mu.Unlock()
	return &countedStream{Stream: s, p: p}, nil
}

func (p *countingProvider) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened, p.closed
}

type countedStream struct {
	stream.Stream
	p *countingProvider
}

func (s *countedStream) Close() error {
	s.p.mu.Lock()
	s.p.closed++
	s.p.mu.Unlock()
	return s.Stream.Close()
}

func TestClient_ReadTimeoutClosesStream(t *testing.T) {
	// A listener that accepts and then stalls forever.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		_, _ = conn.Read(buf)
		time.Sleep(5 * time.Second)
	}()

	p := &countingProvider{inner: &stream.NetProvider{}}
	c := NewClient(WithProvider(p), WithReadTimeout(50*time.Millisecond))

	_, err = c.Get("http://"+ln.Addr().String(), nil)

	require.Error(t, err)
	assert.True(t, httperr.Is(err, httperr.Timeout), "got %v", err)

	opened, closed := p.counts()
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, closed)
}

func TestClient_StreamClosedPerHop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/new" {
			_, _ = w.Write([]byte("done"))
			return
		}
		http.Redirect(w, r, "/new", http.StatusFound)
	}))
	defer server.Close()

	p := &countingProvider{inner: &stream.NetProvider{}}
	c := NewClient(WithProvider(p))

	resp, err := c.Get(server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.BodyString())

	opened, closed := p.counts()
	assert.Equal(t, 2, opened)
	assert.Equal(t, 2, closed)
}

func TestClient_Trace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/new" {
			return
		}
		http.Redirect(w, r, "/new", http.StatusFound)
	}))
	defer server.Close()

	var mu sync.Mutex
	var events []string
	record := func(name string) {
		mu.Lock()
		events = append(events, name)
		mu.Unlock()
	}
	tr := &Trace{
		ConnectStart: func(addr string, tls bool) { record("connect") },
		ConnectDone:  func(addr string, err error) { record("connected") },
		WroteRequest: func(method, target string) { record("wrote") },
		GotResponse:  func(status int, reason string) { record("response") },
		Redirect:     func(from, to string) { record("redirect") },
	}

	_, err := NewClient(WithTrace(tr)).Get(server.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"connect", "connected", "wrote", "response", "redirect",
		"connect", "connected", "wrote", "response",
	}, events)
}

func TestClient_ResponseDuration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
	}))
	defer server.Close()

	resp, err := NewClient().Get(server.URL, nil)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.Duration, 20*time.Millisecond)
}

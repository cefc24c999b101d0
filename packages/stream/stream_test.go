package stream

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/httpwire/packages/httperr"
)

func TestNetProvider_DialPlain(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("hello"))
		_ = conn.Close()
	}()

	addr := ln.Addr().(*net.TCPAddr)
	p := &NetProvider{}
	s, err := p.Dial(context.Background(), "127.0.0.1", addr.Port, false)
	require.NoError(t, err)
	defer s.Close()

	buf, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))
}

func TestNetProvider_DialRefused(t *testing.T) {
	// Grab a port and close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	p := &NetProvider{}
	_, err = p.Dial(context.Background(), "127.0.0.1", port, false)
	require.Error(t, err)
	assert.True(t, httperr.Is(err, httperr.Transport))
}

func TestNetProvider_DialTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	p := &NetProvider{}
	_, err := p.Dial(ctx, "203.0.113.1", 81, false)
	require.Error(t, err)
	assert.True(t, httperr.Is(err, httperr.Timeout), "got %v", err)
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(os.ErrDeadlineExceeded))
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.False(t, IsTimeout(errors.New("refused")))
	assert.False(t, IsTimeout(io.EOF))
}

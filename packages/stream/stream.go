package stream

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/httpwire/packages/httperr"
)

// Stream is a connected duplex byte channel. Both *net.TCPConn and
// *tls.Conn satisfy it; the engine never depends on a concrete type.
type Stream interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error

	// SetReadDeadline bounds every subsequent Read. The zero time
	// clears the deadline.
	SetReadDeadline(t time.Time) error
}

// Provider opens Streams. It is the seam between the engine and the
// transport/TLS collaborator: TLS handshake and certificate validation
// happen entirely inside the Provider.
type Provider interface {
	Dial(ctx context.Context, host string, port int, useTLS bool) (Stream, error)
}

// NetProvider dials TCP connections through net.Dialer, wrapping them
// with crypto/tls when asked. TLS configuration is injected here once
// at construction; there is no process-wide state.
type NetProvider struct {
	// TLSConfig, if non-nil, is cloned per dial. ServerName and ALPN
	// are filled in when unset.
	TLSConfig *tls.Config
}

func (p *NetProvider) Dial(ctx context.Context, host string, port int, useTLS bool) (Stream, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{}

	if !useTLS {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, classifyDial(err)
		}
		return conn, nil
	}

	cfg := &tls.Config{}
	if p.TLSConfig != nil {
		cfg = p.TLSConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	if len(cfg.NextProtos) == 0 {
		cfg.NextProtos = []string{"http/1.1"}
	}
	td := tls.Dialer{NetDialer: &d, Config: cfg}
	conn, err := td.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyDial(err)
	}
	return conn, nil
}

func classifyDial(err error) error {
	if IsTimeout(err) {
		return httperr.Wrap(httperr.Timeout, "dial", err)
	}
	return httperr.Wrap(httperr.Transport, "dial", err)
}

// IsTimeout reports whether err is a deadline or context expiry rather
// than a hard transport failure.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

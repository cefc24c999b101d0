package uri

import (
	"net"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/httpwire/packages/httperr"
)

// URI is a parsed absolute http or https URI. It is immutable once
// parsed; the path and query are kept verbatim for wire use, no percent
// decoding is performed.
type URI struct {
	Scheme   string
	Userinfo string
	Host     string
	Port     int
	Path     string
	Query    string
	Fragment string
}

const (
	defaultHTTPPort  = 80
	defaultHTTPSPort = 443
)

// Parse parses an absolute URI. Relative references are rejected; the
// redirect loop resolves origin-form Location values itself before
// calling Parse.
func Parse(raw string) (*URI, error) {
	s := strings.TrimSpace(raw)

	i := strings.Index(s, "://")
	if i < 0 {
		return nil, httperr.Newf(httperr.InvalidURI, "parse", "missing scheme in %q", raw)
	}
	scheme := strings.ToLower(s[:i])
	if scheme != "http" && scheme != "https" {
		return nil, httperr.Newf(httperr.InvalidURI, "parse", "unsupported scheme %q", scheme)
	}
	rest := s[i+3:]

	authority := rest
	tail := ""
	if j := strings.IndexAny(rest, "/?#"); j >= 0 {
		authority = rest[:j]
		tail = rest[j:]
	}

	u := &URI{Scheme: scheme}
	if j := strings.LastIndexByte(authority, '@'); j >= 0 {
		u.Userinfo = authority[:j]
		authority = authority[j+1:]
	}

	host, port, err := splitHostPort(authority, scheme)
	if err != nil {
		return nil, err
	}
	if host == "" {
		return nil, httperr.Newf(httperr.InvalidURI, "parse", "missing host in %q", raw)
	}
	u.Host = host
	u.Port = port

	if j := strings.IndexByte(tail, '#'); j >= 0 {
		u.Fragment = tail[j+1:]
		tail = tail[:j]
	}
	if j := strings.IndexByte(tail, '?'); j >= 0 {
		u.Query = tail[j+1:]
		tail = tail[:j]
	}
	u.Path = tail

	return u, nil
}

func splitHostPort(authority, scheme string) (string, int, error) {
	host := authority
	portStr := ""

	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end < 0 {
			return "", 0, httperr.Newf(httperr.InvalidURI, "parse", "unclosed IPv6 literal in %q", authority)
		}
		host = authority[:end+1]
		rest := authority[end+1:]
		if rest != "" {
			if !strings.HasPrefix(rest, ":") {
				return "", 0, httperr.Newf(httperr.InvalidURI, "parse", "invalid authority %q", authority)
			}
			portStr = rest[1:]
		}
	} else if j := strings.LastIndexByte(authority, ':'); j >= 0 {
		host = authority[:j]
		portStr = authority[j+1:]
	}

	if portStr == "" {
		if scheme == "https" {
			return host, defaultHTTPSPort, nil
		}
		return host, defaultHTTPPort, nil
	}
	n, err := strconv.Atoi(portStr)
	if err != nil || n < 1 || n > 65535 {
		return "", 0, httperr.Newf(httperr.InvalidURI, "parse", "invalid port %q", portStr)
	}
	return host, n, nil
}

// IsTLS reports whether the scheme requires a TLS-wrapped stream.
func (u *URI) IsTLS() bool {
	return u.Scheme == "https"
}

// Resource returns the request-target used on the request line:
// path[?query], with "/" standing in for an empty path.
func (u *URI) Resource() string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.Query != "" {
		return path + "?" + u.Query
	}
	return path
}

// Addr returns the dial address host:port.
func (u *URI) Addr() string {
	return net.JoinHostPort(u.Hostname(), strconv.Itoa(u.Port))
}

// Hostname returns the host with IPv6 brackets stripped.
func (u *URI) Hostname() string {
	return strings.Trim(u.Host, "[]")
}

// HostHeader returns the value for the Host header: the host alone on
// the scheme's default port, host:port otherwise.
func (u *URI) HostHeader() string {
	if (u.Scheme == "http" && u.Port == defaultHTTPPort) ||
		(u.Scheme == "https" && u.Port == defaultHTTPSPort) {
		return u.Host
	}
	return u.Host + ":" + strconv.Itoa(u.Port)
}

// String reserializes the URI. Path and query come back verbatim.
func (u *URI) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.Userinfo != "" {
		b.WriteString(u.Userinfo)
		b.WriteByte('@')
	}
	b.WriteString(u.HostHeader())
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

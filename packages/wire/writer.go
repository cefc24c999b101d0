package wire

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/abdul-hamid-achik/httpwire/packages/header"
	"github.com/abdul-hamid-achik/httpwire/packages/httperr"
	"github.com/abdul-hamid-achik/httpwire/packages/stream"
	"github.com/abdul-hamid-achik/httpwire/packages/uri"
)

const crlf = "\r\n"

// WriteRequest serializes one request and writes the whole message to w
// before any response byte is read. A Host header computed from the URI
// is inserted first when the caller did not set one, and Content-Length
// is forced to the exact body length for non-empty bodies; chunked
// request bodies are not supported.
func WriteRequest(w io.Writer, method string, u *uri.URI, h *header.Headers, body []byte) error {
	hdr := h.Clone()
	if len(body) > 0 {
		hdr.Set("Content-Length", strconv.Itoa(len(body)))
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s HTTP/1.1%s", method, u.Resource(), crlf)
	if !hdr.Has("Host") {
		fmt.Fprintf(&b, "Host: %s%s", u.HostHeader(), crlf)
	}
	for _, e := range hdr.Entries() {
		fmt.Fprintf(&b, "%s: %s%s", e.Name, e.Value, crlf)
	}
	b.WriteString(crlf)
	b.Write(body)

	if _, err := w.Write(b.Bytes()); err != nil {
		if stream.IsTimeout(err) {
			return httperr.Wrap(httperr.Timeout, "write request", err)
		}
		return httperr.Wrap(httperr.Transport, "write request", err)
	}
	return nil
}

package wire

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/httpwire/packages/header"
	"github.com/abdul-hamid-achik/httpwire/packages/httperr"
	"github.com/abdul-hamid-achik/httpwire/packages/stream"
)

// DefaultMaxLineBytes bounds a single status or header line. A longer
// line is treated as a malformed response.
const DefaultMaxLineBytes = 8 << 10

type parseState int

const (
	stateStatusLine parseState = iota
	stateHeaders
	stateFraming
	stateBody
	stateDone
)

// Head is the parsed status line and header block of one response.
type Head struct {
	Proto      string
	StatusCode int
	Reason     string
	Headers    *header.Headers
}

// Parser consumes one HTTP/1.x response from a stream. It advances
// through a strict sequence of states (status line, headers, framing
// decision, body) with no backward transitions, so a partial read
// simply resumes where the previous read stopped.
type Parser struct {
	br      *bufio.Reader
	maxLine int
	state   parseState
	head    *Head
}

// NewParser wraps r for parsing a single response.
func NewParser(r io.Reader) *Parser {
	return &Parser{br: bufio.NewReader(r), maxLine: DefaultMaxLineBytes, state: stateStatusLine}
}

// ReadHead consumes the status line and header block.
func (p *Parser) ReadHead() (*Head, error) {
	if p.state != stateStatusLine {
		return nil, errors.New("wire: response head already consumed")
	}

	line, err := p.readLine("read status line")
	if err != nil {
		return nil, err
	}
	head, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}
	p.state = stateHeaders

	head.Headers = header.New()
	for {
		line, err := p.readLine("read header")
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, httperr.Newf(httperr.MalformedResponse, "read header", "no colon in %q", line)
		}
		name := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])
		if name == "" {
			return nil, httperr.Newf(httperr.MalformedResponse, "read header", "empty name in %q", line)
		}
		head.Headers.Add(name, value)
	}

	p.state = stateFraming
	p.head = head
	return head, nil
}

// Body decides the framing mode from the parsed head and returns a
// reader producing exactly the response body. The request method is
// needed because responses to HEAD never carry a body. The returned
// reader is only valid until the underlying stream is closed.
func (p *Parser) Body(method string) (io.Reader, error) {
	if p.state != stateFraming {
		return nil, errors.New("wire: body requested before head was parsed")
	}
	h := p.head

	if method == "HEAD" || bodilessStatus(h.StatusCode) {
		p.state = stateDone
		return strings.NewReader(""), nil
	}

	if hasChunkedTE(h.Headers) {
		p.state = stateBody
		return &chunkedReader{p: p}, nil
	}

	if v := h.Headers.Get("Content-Length"); v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n < 0 {
			return nil, httperr.Newf(httperr.MalformedResponse, "parse content length", "invalid value %q", v)
		}
		if n == 0 {
			p.state = stateDone
			return strings.NewReader(""), nil
		}
		p.state = stateBody
		return &fixedReader{p: p, remain: n}, nil
	}

	// No framing header: the body is everything until the peer closes.
	// This engine never reuses a connection, so the fallback is always
	// legal.
	p.state = stateBody
	return &untilCloseReader{p: p}, nil
}

// bodilessStatus reports codes defined as having no body.
func bodilessStatus(code int) bool {
	return code/100 == 1 || code == 204 || code == 304
}

func hasChunkedTE(h *header.Headers) bool {
	for _, v := range h.Values("Transfer-Encoding") {
		if strings.Contains(strings.ToLower(v), "chunked") {
			return true
		}
	}
	return false
}

func parseStatusLine(line string) (*Head, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return nil, httperr.Newf(httperr.MalformedResponse, "read status line", "not a status line: %q", line)
	}
	proto := parts[0]
	if proto != "HTTP/1.0" && proto != "HTTP/1.1" {
		return nil, httperr.Newf(httperr.MalformedResponse, "read status line", "unsupported protocol %q", proto)
	}
	codeStr := parts[1]
	if len(codeStr) != 3 {
		return nil, httperr.Newf(httperr.MalformedResponse, "read status line", "bad status code %q", codeStr)
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil || code < 100 || code > 599 {
		return nil, httperr.Newf(httperr.MalformedResponse, "read status line", "bad status code %q", codeStr)
	}
	reason := ""
	if len(parts) == 3 {
		reason = parts[2]
	}
	return &Head{Proto: proto, StatusCode: code, Reason: reason}, nil
}

// readLine reads one CRLF-terminated line, tolerating a bare LF, with
// the line-length limit applied.
func (p *Parser) readLine(op string) (string, error) {
	var sb strings.Builder
	for {
		b, err := p.br.ReadByte()
		if err != nil {
			return "", classifyRead(op, err)
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if p.maxLine > 0 && sb.Len() > p.maxLine {
			return "", httperr.New(httperr.MalformedResponse, op, "line exceeds limit")
		}
	}
	return sb.String(), nil
}

func classifyRead(op string, err error) error {
	if stream.IsTimeout(err) {
		return httperr.Wrap(httperr.Timeout, op, err)
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return httperr.Wrap(httperr.Transport, op, err)
}

// fixedReader yields exactly remain bytes; a stream close before then
// is a truncated body, never a short success.
type fixedReader struct {
	p      *Parser
	remain int64
}

func (r *fixedReader) Read(buf []byte) (int, error) {
	if r.remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(buf)) > r.remain {
		buf = buf[:r.remain]
	}
	n, err := r.p.br.Read(buf)
	r.remain -= int64(n)
	if r.remain == 0 {
		r.p.state = stateDone
	}
	if err != nil {
		if err == io.EOF {
			if r.remain == 0 {
				return n, nil
			}
			return n, httperr.Newf(httperr.TruncatedBody, "read body", "stream closed with %d bytes missing", r.remain)
		}
		return n, classifyRead("read body", err)
	}
	return n, nil
}

// chunkedReader decodes Transfer-Encoding: chunked. Chunk extensions
// are ignored and trailer fields are consumed and discarded; the
// zero-size chunk terminates the body even when more bytes remain
// unread on the stream.
type chunkedReader struct {
	p        *Parser
	remain   int64
	finished bool
}

func (r *chunkedReader) Read(buf []byte) (int, error) {
	if r.finished {
		return 0, io.EOF
	}
	if r.remain == 0 {
		size, err := r.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := r.discardTrailers(); err != nil {
				return 0, err
			}
			r.finished = true
			r.p.state = stateDone
			return 0, io.EOF
		}
		r.remain = size
	}
	if len(buf) == 0 {
		return 0, nil
	}
	toRead := int64(len(buf))
	if toRead > r.remain {
		toRead = r.remain
	}
	n, err := io.ReadFull(r.p.br, buf[:toRead])
	r.remain -= int64(n)
	if err != nil {
		return n, classifyRead("read chunk", err)
	}
	if r.remain == 0 {
		if err := r.expectCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (r *chunkedReader) readChunkSize() (int64, error) {
	line, err := r.p.readLine("read chunk size")
	if err != nil {
		return 0, err
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 16 {
		return 0, httperr.Newf(httperr.MalformedResponse, "read chunk size", "bad chunk size line %q", line)
	}
	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, httperr.Newf(httperr.MalformedResponse, "read chunk size", "bad chunk size line %q", line)
	}
	return n, nil
}

func (r *chunkedReader) expectCRLF() error {
	b1, err := r.p.br.ReadByte()
	if err != nil {
		return classifyRead("read chunk", err)
	}
	b2, err := r.p.br.ReadByte()
	if err != nil {
		return classifyRead("read chunk", err)
	}
	if b1 != '\r' || b2 != '\n' {
		return httperr.New(httperr.MalformedResponse, "read chunk", "missing CRLF after chunk data")
	}
	return nil
}

func (r *chunkedReader) discardTrailers() error {
	for {
		line, err := r.p.readLine("read trailer")
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
	}
}

// untilCloseReader yields bytes until the peer signals a clean close.
type untilCloseReader struct {
	p *Parser
}

func (r *untilCloseReader) Read(buf []byte) (int, error) {
	n, err := r.p.br.Read(buf)
	if err == io.EOF {
		r.p.state = stateDone
		return n, io.EOF
	}
	if err != nil {
		return n, classifyRead("read body", err)
	}
	return n, nil
}

// Package wire serializes requests to and parses responses from their
// HTTP/1.1 wire form.
//
// The parser is an explicit state machine over a blocking stream:
// status line, header block, a framing decision (chunked, fixed length
// or read-until-close) and then the body. Separating the framing
// decision from consumption keeps the chunked-decoding edge cases in
// one place and lets the executor reuse the parser for any transport.
package wire

// Package uri parses absolute http/https URIs for wire use.
//
// Unlike net/url it never normalizes or percent-decodes the path and
// query, so a request-target round-trips byte for byte onto the request
// line.
package uri

// Package stream abstracts the duplex byte channel one request/response
// exchange runs over, independent of whether it is TLS-secured.
package stream

// Package client is the public entry point of httpwire: it builds wire
// requests, drives them over a stream and parses the response back.
//
// Each request uses one connection, used once, then discarded; there is
// no pooling, keep-alive reuse, compression or cookie handling.
//
//	c := client.NewClient(client.WithTimeout(5 * time.Second))
//	res, err := c.Get("https://example.com/", os.Stdout)
package client

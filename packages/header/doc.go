// Package header implements an ordered, case-insensitive HTTP header
// multimap shared by requests and responses.
package header

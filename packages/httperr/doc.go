// Package httperr defines the typed error kinds returned by httpwire.
//
// Every failure surfaced by the engine is an *Error with a Kind, so a
// caller can decide whether a retry at its own layer makes sense:
//
//	if httperr.Is(err, httperr.Timeout) {
//	    // retry with a longer deadline
//	}
package httperr

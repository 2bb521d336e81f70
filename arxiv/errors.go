package arxiv

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped by a TransportError when the API
	// answers with anything other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrResponseTooLarge is wrapped by a TransportError when the body
	// exceeds the client's MaxBytes guard.
	ErrResponseTooLarge = errors.New("response exceeds maximum size")
)

// TransportError reports a request that could not be completed: the
// request could not be built or sent, the body could not be read, or the
// endpoint answered with a non-success status.
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("arxiv transport: %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("arxiv transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not a well-formed feed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("arxiv parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsParse reports whether err is or wraps a *ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

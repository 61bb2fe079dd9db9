package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the endpoint answers 200 without any choices.
var ErrEmptyResponse = errors.New("no choices in response")

// StatusError is returned when the endpoint answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// NetworkError wraps a transport level failure: refused connection,
// DNS failure, TLS failure or timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

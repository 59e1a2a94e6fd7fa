package client

import (
	"errors"
	"fmt"
)

// TransportError is a failed exchange with the service. Status is 0 when no
// response was received.
type TransportError struct {
	Op     string
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.Status, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is worth retrying: no response at
// all, or a server-side status.
func (e *TransportError) Retryable() bool {
	return e.Status == 0 || e.Status >= 500
}

// IsTransportError reports whether err is a *TransportError.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *TransportError
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

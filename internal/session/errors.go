package session

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeSuperseded indicates a response dropped because a newer request
	// was issued after it.
	ErrCodeSuperseded ErrorCode = "SUPERSEDED"

	// ErrCodeNoOutput indicates a run response without a result section.
	ErrCodeNoOutput ErrorCode = "NO_OUTPUT"
)

// Error is a session-level failure.
type Error struct {
	Code  ErrorCode
	Op    string
	Token string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeSuperseded:
		return fmt.Sprintf("%s: %s response (token=%s) arrived after a newer request", e.Code, e.Op, e.Token)
	case ErrCodeNoOutput:
		return fmt.Sprintf("%s: %s response has no Output or Outputs section", e.Code, e.Op)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Op)
	}
}

// IsSuperseded reports whether err is a superseded-response error.
func IsSuperseded(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeSuperseded
}

// IsNoOutput reports whether err is a missing-result error.
func IsNoOutput(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNoOutput
}

package state

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes state errors.
type ErrorCode string

const (
	// ErrCodeMissingMetadata indicates consolidation without metadata.
	ErrCodeMissingMetadata ErrorCode = "MISSING_METADATA"

	// ErrCodeStaleWrite indicates a conditional dispatch whose expected
	// version is no longer current.
	ErrCodeStaleWrite ErrorCode = "STALE_WRITE"
)

// Error is a state-level failure with structured fields for diagnostics.
type Error struct {
	Code     ErrorCode
	Message  string
	Section  Section
	Expected int64
	Actual   int64
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == ErrCodeStaleWrite {
		return fmt.Sprintf("%s: %s (section=%s, expected=%d, actual=%d)",
			e.Code, e.Message, e.Section, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMissingMetadataError creates the error raised when a model without
// metadata is consolidated.
func NewMissingMetadataError() *Error {
	return &Error{
		Code:    ErrCodeMissingMetadata,
		Message: "model metadata is required",
		Section: SectionMetadata,
	}
}

// NewStaleWriteError creates the error raised by DispatchIf.
func NewStaleWriteError(section Section, expected, actual int64) *Error {
	return &Error{
		Code:     ErrCodeStaleWrite,
		Message:  "section changed since it was read",
		Section:  section,
		Expected: expected,
		Actual:   actual,
	}
}

// IsMissingMetadata reports whether err is a missing-metadata error.
// Uses errors.As to handle wrapped errors.
func IsMissingMetadata(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeMissingMetadata
}

// IsStaleWrite reports whether err is a stale-write error.
func IsStaleWrite(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeStaleWrite
}

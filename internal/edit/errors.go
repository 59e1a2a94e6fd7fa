package edit

import (
	"errors"
	"fmt"
)

// ErrCodeUnknownField indicates an edit naming a field that does not exist.
const ErrCodeUnknownField = "UNKNOWN_FIELD"

// Error is a rejected field edit.
type Error struct {
	Code   string
	Target string // "metadata" or "product"
	Field  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s has no field %q", e.Code, e.Target, e.Field)
}

// IsUnknownField reports whether err is an unknown-field error.
func IsUnknownField(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeUnknownField
}

func unknownField(target, field string) *Error {
	return &Error{Code: ErrCodeUnknownField, Target: target, Field: field}
}

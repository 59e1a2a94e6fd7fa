package cli

import (
	"errors"

	"github.com/roach88/rollforward/internal/client"
	"github.com/roach88/rollforward/internal/edit"
	"github.com/roach88/rollforward/internal/session"
	"github.com/roach88/rollforward/internal/state"
	"github.com/roach88/rollforward/internal/store"
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeModelFile       = "E002" // Working model file unreadable or unwritable
	ErrCodeMissingMetadata = "E003" // Model has no metadata
	ErrCodeStaleWrite      = "E004" // Section changed underneath the edit
	ErrCodeNotFound        = "E005" // Unknown model id or file
	ErrCodeUnknownField    = "E006" // Unknown metadata/product field
	ErrCodeTransport       = "E007" // Service unreachable or returned an error
	ErrCodeSuperseded      = "E008" // Response dropped in favour of a newer request
	ErrCodeNoOutput        = "E009" // Run response without a result
	ErrCodeInvalidModel    = "E010" // Validation errors
	ErrCodeUnsupported     = "E011" // Operation not available for this backend
	ErrCodeInvalidArgument = "E012" // Bad command argument
)

// classify maps an error to its CLI code and exit code.
func classify(err error) (string, int) {
	var (
		te *client.TransportError
		ee *ExitError
	)
	switch {
	case state.IsMissingMetadata(err):
		return ErrCodeMissingMetadata, ExitFailure
	case state.IsStaleWrite(err):
		return ErrCodeStaleWrite, ExitFailure
	case session.IsSuperseded(err):
		return ErrCodeSuperseded, ExitFailure
	case session.IsNoOutput(err):
		return ErrCodeNoOutput, ExitFailure
	case edit.IsUnknownField(err):
		return ErrCodeUnknownField, ExitCommandError
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeNotFound, ExitCommandError
	case errors.Is(err, store.ErrRunUnsupported):
		return ErrCodeUnsupported, ExitCommandError
	case errors.As(err, &te):
		if te.Status == 404 {
			return ErrCodeNotFound, ExitCommandError
		}
		return ErrCodeTransport, ExitCommandError
	case errors.As(err, &ee):
		return ErrCodeGeneric, ee.Code
	default:
		return ErrCodeGeneric, ExitCommandError
	}
}

// fail reports err through the formatter and returns the ExitError the
// command should return.
func fail(f *OutputFormatter, err error) error {
	code, exit := classify(err)
	return failWith(f, code, exit, err.Error(), err)
}

// failWith reports a specific code and message.
func failWith(f *OutputFormatter, code string, exit int, message string, err error) error {
	_ = f.Error(code, message, nil)
	if err != nil {
		return WrapExitError(exit, code, err)
	}
	return &ExitError{Code: exit, Message: code + ": " + message}
}

// usage reports an invalid argument.
func usage(f *OutputFormatter, message string) error {
	return failWith(f, ErrCodeInvalidArgument, ExitCommandError, message, nil)
}

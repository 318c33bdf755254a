package cli

import (
	"errors"
	"fmt"

	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
)

// Exit codes for the openicons CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a general failure
	ExitFailure = 1

	// ExitValidationFailed indicates a document or input failed validation
	ExitValidationFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitConfigError indicates configuration could not be loaded
	ExitConfigError = 4

	// ExitUnavailable indicates the changelog could not be retrieved
	ExitUnavailable = 5
)

// ExitError carries an exit code for a failure that has already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// IsSilentExit reports whether err only carries an exit code.
func IsSilentExit(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if e := siteerrors.As(err); e != nil {
		switch e.Category {
		case siteerrors.Configuration:
			return ExitConfigError
		case siteerrors.Validation:
			return ExitValidationFailed
		case siteerrors.Retrieval, siteerrors.NotFound:
			return ExitUnavailable
		}
	}
	return ExitFailure
}

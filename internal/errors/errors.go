package errors

import (
	"fmt"
	"io"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the autobackup CLI.
const (
	// ExitSuccess indicates the run completed and every job succeeded.
	ExitSuccess = 0

	// ExitUser indicates a precondition failure (missing config, invalid roots,
	// malformed configuration). No file has been touched.
	ExitUser = 1

	// ExitSystem indicates a system-related error (lock held, I/O on the
	// report file, etc.).
	ExitSystem = 2

	// ExitPartial indicates the run went to completion but at least one job
	// was invalid, failed or only partially relocated.
	ExitPartial = 3
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrPrecondition indicates a required input was missing or unusable.
	ErrPrecondition = crdb.New("precondition failed")
)

// The functions below forward to cockroachdb/errors so callers can import a
// single errors package that carries stack traces and the exit helpers.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Join   = crdb.Join
	Unwrap = crdb.Unwrap
	Mark   = crdb.Mark
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: autobackup validate --config <file> --rootSrc <dir> --rootDst <dir>",
	}
}

// NewPreconditionError creates an ExitError with ExitUser code for an input
// that was checked before any file was touched. The error is marked with
// ErrPrecondition.
func NewPreconditionError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        crdb.Mark(err, ErrPrecondition),
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewPartialError creates an ExitError with ExitPartial code for a run that
// finished with at least one job not completed cleanly.
func NewPartialError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitPartial,
		Suggestion: "See the log file for the entries that were not backed up",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit code carried by err. A nil error maps to
// ExitSuccess and an error without an ExitError in its chain maps to
// ExitSystem.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSystem
}

// Print writes err and, when present, its suggestion to w the way the CLI
// reports failures. A nil err prints nothing.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	var exitErr *ExitError
	if crdb.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}

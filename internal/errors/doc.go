// Package errors provides error handling conventions for the autobackup CLI.
//
// It forwards the constructors and inspectors of
// github.com/cockroachdb/errors (New, Newf, Wrap, Wrapf, Is, As, Join) so that
// every package wraps errors the same way, and it defines an ExitError type
// plus exit code constants for the command layer.
//
// # Exit Codes
//
//   - ExitSuccess (0): every job completed
//   - ExitUser (1): precondition failure, nothing was moved
//   - ExitSystem (2): system-related error (lock held, report I/O)
//   - ExitPartial (3): the run completed (or was interrupted) but some jobs
//     reported problems
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := errors.NewPreconditionError(err, "--rootSrc must be an existing directory")
//	errors.Print(os.Stderr, err)
//	os.Exit(errors.ExitCode(err))
package errors

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/autobackup/internal/backup"
	"github.com/thoreinstein/autobackup/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrNoJobs indicates the backup list is missing or empty.
	ErrNoJobs = errors.New("backup list is empty")

	// ErrInvalidPath indicates a source or destination is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPolicy indicates a missing or unknown fileExistsAction.
	ErrInvalidPolicy = errors.New("invalid fileExistsAction")

	// ErrInvalidLevel indicates an unknown loglevel.
	ErrInvalidLevel = errors.New("invalid loglevel")

	// ErrInvalidValue indicates a scalar setting is out of range.
	ErrInvalidValue = errors.New("invalid value")
)

// Validate checks a Config for validity.
// Returns nil if valid, or every problem found.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if _, err := cfg.Level(); err != nil {
		errs = append(errs, &FieldError{Field: "loglevel", Value: cfg.LogLevel, Err: ErrInvalidLevel})
	}

	if _, err := cfg.IgnoreRules(); err != nil {
		errs = append(errs, &FieldError{Field: "ignorePatterns", Err: err})
	}

	if !cfg.Quarantine().Valid() {
		errs = append(errs, &FieldError{
			Field: "quarantineLocation",
			Value: cfg.QuarantineLocation,
			Err:   errors.Wrapf(ErrInvalidValue, "want %q or %q", backup.QuarantineBesideSource, backup.QuarantineBesideDestination),
		})
	}

	if cfg.LogMaxSizeMB < 0 {
		errs = append(errs, &FieldError{Field: "logMaxSizeMB", Value: fmt.Sprint(cfg.LogMaxSizeMB), Err: ErrInvalidValue})
	}
	if cfg.LogMaxBackups < 0 {
		errs = append(errs, &FieldError{Field: "logMaxBackups", Value: fmt.Sprint(cfg.LogMaxBackups), Err: ErrInvalidValue})
	}

	if len(cfg.Backup) == 0 {
		errs = append(errs, ErrNoJobs)
	}

	for i, f := range cfg.Backup {
		if err := validatePath(f.Source); err != nil {
			errs = append(errs, &JobError{Index: i, Field: "source", Value: f.Source, Err: err})
		}
		if err := validatePath(f.Destination); err != nil {
			errs = append(errs, &JobError{Index: i, Field: "destination", Value: f.Destination, Err: err})
		}
		if !f.FileExistsAction.Valid() {
			errs = append(errs, &JobError{
				Index: i,
				Field: "fileExistsAction",
				Err:   errors.Wrap(ErrInvalidPolicy, "want skip or keep_both"),
			})
		}
	}

	return errs
}

// validatePath checks that a job path is syntactically usable. Whether it
// stays inside its root is decided at run time, after symlinks are resolved.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.Wrap(ErrInvalidPath, "path is empty")
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return errors.Wrap(ErrInvalidPath, "path contains a NUL byte")
	}

	if cleaned := filepath.Clean(path); cleaned == "." {
		return errors.Wrap(ErrInvalidPath, "path refers to the root itself")
	}

	return nil
}

// FieldError represents an error for a top-level setting.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// JobError represents an error in one entry of the backup list.
type JobError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *JobError) Error() string {
	msg := fmt.Sprintf("backup[%d].%s: %s", e.Index, e.Field, e.Err.Error())
	if e.Value != "" {
		msg += ": " + e.Value
	}
	return msg
}

func (e *JobError) Unwrap() error {
	return e.Err
}

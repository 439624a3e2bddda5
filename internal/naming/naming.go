// Package naming allocates destination names that do not collide with
// anything already on disk.
//
// Allocation is check-then-use: a name is free when Lstat reports it missing
// at the time of the call, and nothing is reserved. That is sufficient for a
// single worker moving one entry at a time; concurrent callers targeting the
// same directory would need their own mutual exclusion.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/autobackup/internal/paths"
)

// MaxSuffix is the highest numeric suffix tried by either strategy.
const MaxSuffix = 99

// QuarantineSuffix is inserted between a directory name and its number.
const QuarantineSuffix = ".skipped"

// ErrExhausted is matched by every ExhaustedError.
var ErrExhausted = errors.New("no free name available")

// ExhaustedError reports that every candidate name for Base was taken.
type ExhaustedError struct {
	// Base is the path the allocator tried to derive a name from.
	Base string
	// Limit is the last suffix tried.
	Limit int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no free name for %s: suffixes up to %d are taken", e.Base, e.Limit)
}

// Is makes errors.Is(err, ErrExhausted) succeed.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// QuarantinePath returns dir + ".skipped{i}" for the smallest i in
// [1, MaxSuffix] that does not exist.
func QuarantinePath(dir string) (string, error) {
	dir = filepath.Clean(dir)
	for i := 1; i <= MaxSuffix; i++ {
		candidate := fmt.Sprintf("%s%s%d", dir, QuarantineSuffix, i)
		taken, err := paths.Exists(candidate)
		if err != nil {
			return "", errors.Wrapf(err, "checking %s", candidate)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", &ExhaustedError{Base: dir, Limit: MaxSuffix}
}

// KeepBothPath returns dir/name when it is free, otherwise the first free
// "{stem} {i}{ext}" for i in [2, MaxSuffix].
func KeepBothPath(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	taken, err := paths.Exists(target)
	if err != nil {
		return "", errors.Wrapf(err, "checking %s", target)
	}
	if !taken {
		return target, nil
	}

	stem, ext := SplitName(name)
	for i := 2; i <= MaxSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s %d%s", stem, i, ext))
		taken, err := paths.Exists(candidate)
		if err != nil {
			return "", errors.Wrapf(err, "checking %s", candidate)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", &ExhaustedError{Base: target, Limit: MaxSuffix}
}

// SplitName splits a file name into stem and extension. The extension starts
// at the last dot, unless that dot is the first or the last character:
//
//	report.pdf   -> "report", ".pdf"
//	a.tar.gz     -> "a.tar", ".gz"
//	.bashrc      -> ".bashrc", ""
//	notes.       -> "notes.", ""
func SplitName(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

package paths

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Resolve returns the canonical absolute form of path. Relative segments are
// cleaned and symlinks are evaluated on the longest prefix that exists, so a
// destination that has not been created yet still resolves through any
// symlinked ancestors.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "making %s absolute", path)
	}

	existing := abs
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, "resolving %s", existing)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}
}

// IsWithinRoot reports whether candidate, once resolved, is root itself or
// one of its descendants. Resolution failures count as "not within".
func IsWithinRoot(root, candidate string) bool {
	_, ok := relativeTo(root, candidate)
	return ok
}

// IsBelowRoot is like IsWithinRoot but excludes root itself.
func IsBelowRoot(root, candidate string) bool {
	rel, ok := relativeTo(root, candidate)
	return ok && rel != "."
}

// relativeTo returns candidate's path relative to root, or ok=false when
// either path cannot be resolved or candidate lies outside root.
func relativeTo(root, candidate string) (string, bool) {
	r, err := Resolve(root)
	if err != nil {
		return "", false
	}
	c, err := Resolve(candidate)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(r, c)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

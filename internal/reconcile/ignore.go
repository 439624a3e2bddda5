package reconcile

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	mapset "github.com/deckarep/golang-set/v2"
)

// ErrBadPattern is returned for an ignore pattern doublestar cannot parse.
var ErrBadPattern = errors.New("invalid ignore pattern")

// IgnoreRules decides which directory entries are left alone. Rules match
// the entry's base name only: an exact name from the configured list, or a
// doublestar glob pattern.
type IgnoreRules struct {
	names    mapset.Set[string]
	patterns []string
}

// NewIgnoreRules builds rules from exact names and glob patterns. Every
// pattern is validated up front.
func NewIgnoreRules(names, patterns []string) (*IgnoreRules, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Wrapf(ErrBadPattern, "%q", p)
		}
	}
	return &IgnoreRules{
		names:    mapset.NewThreadUnsafeSet(names...),
		patterns: append([]string(nil), patterns...),
	}, nil
}

// Match reports whether an entry called name must be ignored. A nil
// receiver ignores nothing.
func (r *IgnoreRules) Match(name string) bool {
	if r == nil {
		return false
	}
	if r.names.Contains(name) {
		return true
	}
	for _, p := range r.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Names returns the exact names, sorted.
func (r *IgnoreRules) Names() []string {
	if r == nil {
		return nil
	}
	names := r.names.ToSlice()
	sort.Strings(names)
	return names
}

// Patterns returns the glob patterns in configuration order.
func (r *IgnoreRules) Patterns() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.patterns...)
}

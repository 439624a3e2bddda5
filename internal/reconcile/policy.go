package reconcile

import (
	"github.com/cockroachdb/errors"
)

// Policy decides what happens to a file whose name is already taken in the
// destination directory.
type Policy int

const (
	// PolicyUnknown is the zero value and never valid in a job.
	PolicyUnknown Policy = iota
	// PolicySkip leaves the destination untouched and moves the incoming file
	// into the job's quarantine directory instead.
	PolicySkip
	// PolicyKeepBoth moves the incoming file under a numbered name next to
	// the existing one.
	PolicyKeepBoth
)

// ErrUnknownPolicy is returned when a policy name is not recognized.
var ErrUnknownPolicy = errors.New("unknown fileExistsAction")

var policyNames = map[Policy]string{
	PolicySkip:     "skip",
	PolicyKeepBoth: "keep_both",
}

// ParsePolicy converts a configuration value to a Policy. Only "skip" and
// "keep_both" are accepted.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if s == name {
			return p, nil
		}
	}
	return PolicyUnknown, errors.Wrapf(ErrUnknownPolicy, "%q (valid: skip, keep_both)", s)
}

// String returns the configuration name of p.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether p is one of the defined policies.
func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Wrapf(ErrUnknownPolicy, "policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so configuration
// decoders reject unknown values while loading.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

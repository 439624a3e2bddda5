package reconcile

// Outcome is the terminal state reached by a single directory entry.
type Outcome string

const (
	OutcomeIgnored     Outcome = "ignored"
	OutcomeRelocated   Outcome = "relocated"
	OutcomeRenamed     Outcome = "renamed"
	OutcomeQuarantined Outcome = "quarantined"
	OutcomeRemoved     Outcome = "removed"
	OutcomeFailed      Outcome = "failed"
)

// Failure records an entry that could not be relocated. Its source is left
// in place.
type Failure struct {
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Reason      string `json:"reason"`
	Err         error  `json:"-"`
}

// Result accumulates what one reconciliation did.
type Result struct {
	Relocated   int       `json:"relocated"`
	Renamed     int       `json:"renamed"`
	Quarantined int       `json:"quarantined"`
	Ignored     int       `json:"ignored"`
	DirsRemoved int       `json:"dirs_removed"`
	Bytes       int64     `json:"bytes"`
	Failures    []Failure `json:"failures,omitempty"`
}

// Moved is the number of files that left the source tree.
func (r *Result) Moved() int {
	return r.Relocated + r.Renamed + r.Quarantined
}

func (r *Result) record(o Outcome, size int64) {
	switch o {
	case OutcomeRelocated:
		r.Relocated++
	case OutcomeRenamed:
		r.Renamed++
	case OutcomeQuarantined:
		r.Quarantined++
	case OutcomeIgnored:
		r.Ignored++
		return
	case OutcomeRemoved:
		r.DirsRemoved++
		return
	}
	r.Bytes += size
}

func (r *Result) fail(src, dst string, err error) {
	r.Failures = append(r.Failures, Failure{
		Source:      src,
		Destination: dst,
		Reason:      err.Error(),
		Err:         err,
	})
}

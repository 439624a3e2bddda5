package backup

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/autobackup/internal/reconcile"
)

// ReportVersion is the format version of the JSON run report.
const ReportVersion = 1

// Sentinel errors for backup operations.
var (
	// ErrEscapesRoot indicates a job path resolves outside of (or onto) its root.
	ErrEscapesRoot = errors.New("path is not inside its root")

	// ErrNotDirectory indicates a job source exists but is not a directory.
	ErrNotDirectory = errors.New("source is not a directory")

	// ErrLocked indicates another run holds the lock on the source root.
	ErrLocked = errors.New("source root is locked by another autobackup run")
)

// Job is one configured (source, destination, policy) triple. Source and
// Destination are relative to the run's roots.
type Job struct {
	Source      string
	Destination string
	Policy      reconcile.Policy
}

// QuarantineLocation selects which tree receives the ".skippedN" sibling.
type QuarantineLocation string

const (
	// QuarantineBesideSource places the quarantine next to the job's source folder.
	QuarantineBesideSource QuarantineLocation = "source"
	// QuarantineBesideDestination places it next to the job's destination folder.
	QuarantineBesideDestination QuarantineLocation = "destination"
)

// Valid reports whether l is a known location.
func (l QuarantineLocation) Valid() bool {
	return l == QuarantineBesideSource || l == QuarantineBesideDestination
}

// Status is the terminal state of a job.
type Status string

const (
	// StatusReady is only reported by Plan: the job would run.
	StatusReady Status = "ready"
	// StatusCompleted means every entry reached a terminal state.
	StatusCompleted Status = "completed"
	// StatusPartial means the job ran but some entries could not be moved.
	StatusPartial Status = "partial"
	// StatusFailed means the job was aborted.
	StatusFailed Status = "failed"
	// StatusInvalid means the job was rejected before touching anything.
	StatusInvalid Status = "invalid"
	// StatusNothingToDo means the source folder does not exist.
	StatusNothingToDo Status = "nothing_to_do"
)

// IsError reports whether s should be surfaced as a problem.
func (s Status) IsError() bool {
	switch s {
	case StatusPartial, StatusFailed, StatusInvalid:
		return true
	default:
		return false
	}
}

// JobReport describes what happened to one job.
type JobReport struct {
	// Job is the configured job.
	Job Job `json:"-"`

	Source          string `json:"source"`
	Destination     string `json:"destination"`
	Policy          string `json:"policy"`
	SourcePath      string `json:"source_path,omitempty"`
	DestinationPath string `json:"destination_path,omitempty"`
	QuarantinePath  string `json:"quarantine_path,omitempty"`

	Status Status            `json:"status"`
	Result *reconcile.Result `json:"result,omitempty"`

	// Error is the message of Err, kept for the JSON report.
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

func newJobReport(job Job) JobReport {
	return JobReport{
		Job:         job,
		Source:      job.Source,
		Destination: job.Destination,
		Policy:      job.Policy.String(),
	}
}

func (r *JobReport) setErr(status Status, err error) {
	r.Status = status
	r.Err = err
	if err != nil {
		r.Error = err.Error()
	}
}

// Summary is the outcome of a whole run.
type Summary struct {
	Version         int         `json:"version"`
	AppVersion      string      `json:"app_version,omitempty"`
	SourceRoot      string      `json:"source_root"`
	DestinationRoot string      `json:"destination_root"`
	StartedAt       time.Time   `json:"started_at"`
	FinishedAt      time.Time   `json:"finished_at"`
	Jobs            []JobReport `json:"jobs"`
}

// HasErrors reports whether any job ended invalid, failed or partial.
func (s *Summary) HasErrors() bool {
	for _, j := range s.Jobs {
		if j.Status.IsError() {
			return true
		}
	}
	return false
}

// Count returns the number of jobs with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, j := range s.Jobs {
		if j.Status == status {
			n++
		}
	}
	return n
}

// Totals sums the per-job results.
func (s *Summary) Totals() reconcile.Result {
	var total reconcile.Result
	for _, j := range s.Jobs {
		if j.Result == nil {
			continue
		}
		total.Relocated += j.Result.Relocated
		total.Renamed += j.Result.Renamed
		total.Quarantined += j.Result.Quarantined
		total.Ignored += j.Result.Ignored
		total.DirsRemoved += j.Result.DirsRemoved
		total.Bytes += j.Result.Bytes
		total.Failures = append(total.Failures, j.Result.Failures...)
	}
	return total
}

// Duration is the wall time of the run.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// JobPlan is the dry resolution of a job produced by Manager.Plan.
type JobPlan struct {
	Job             Job
	SourcePath      string
	DestinationPath string
	Status          Status
	Err             error
}

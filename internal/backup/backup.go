package backup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/autobackup/internal/logging"
	"github.com/thoreinstein/autobackup/internal/naming"
	"github.com/thoreinstein/autobackup/internal/paths"
	"github.com/thoreinstein/autobackup/internal/reconcile"
)

// Reconciler relocates one job's tree. *reconcile.Reconciler satisfies it.
type Reconciler interface {
	Reconcile(ctx context.Context, task reconcile.Task) (*reconcile.Result, error)
}

// Manager runs backup jobs between a source root and a destination root.
type Manager struct {
	sourceRoot string
	destRoot   string
	logger     *slog.Logger
	ignore     *reconcile.IgnoreRules
	quarantine QuarantineLocation
	reconciler Reconciler
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for progress and per-job messages.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithIgnore sets the entries every job leaves alone.
func WithIgnore(rules *reconcile.IgnoreRules) Option {
	return func(m *Manager) {
		m.ignore = rules
	}
}

// WithQuarantineLocation chooses where ".skippedN" folders are allocated.
func WithQuarantineLocation(l QuarantineLocation) Option {
	return func(m *Manager) {
		if l.Valid() {
			m.quarantine = l
		}
	}
}

// WithReconciler replaces the reconciler built from the logger and ignore
// rules.
func WithReconciler(r Reconciler) Option {
	return func(m *Manager) {
		m.reconciler = r
	}
}

// NewManager creates a Manager for the given roots. Both roots are resolved
// to their canonical form; they are expected to be existing directories.
func NewManager(sourceRoot, destRoot string, opts ...Option) (*Manager, error) {
	src, err := paths.Resolve(sourceRoot)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source root")
	}
	dst, err := paths.Resolve(destRoot)
	if err != nil {
		return nil, errors.Wrap(err, "resolving destination root")
	}

	m := &Manager{
		sourceRoot: src,
		destRoot:   dst,
		logger:     logging.NewDiscard(),
		quarantine: QuarantineBesideSource,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.reconciler == nil {
		m.reconciler = reconcile.New(
			reconcile.WithLogger(m.logger),
			reconcile.WithIgnore(m.ignore),
		)
	}
	return m, nil
}

// SourceRoot returns the resolved source root.
func (m *Manager) SourceRoot() string { return m.sourceRoot }

// DestinationRoot returns the resolved destination root.
func (m *Manager) DestinationRoot() string { return m.destRoot }

// Run executes jobs in order. A job that is invalid or fails is recorded and
// the next job still runs. The returned error is non-nil only when ctx was
// cancelled; the Summary then covers the jobs processed so far.
func (m *Manager) Run(ctx context.Context, jobs []Job) (*Summary, error) {
	s := &Summary{
		Version:         ReportVersion,
		SourceRoot:      m.sourceRoot,
		DestinationRoot: m.destRoot,
		StartedAt:       m.now().UTC(),
	}

	m.logger.Info("starting backup",
		"source_root", m.sourceRoot,
		"destination_root", m.destRoot,
		"ignore", m.ignore.Names(),
		"ignore_patterns", m.ignore.Patterns(),
		"jobs", len(jobs))

	var runErr error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			runErr = errors.Wrap(err, "backup interrupted")
			break
		}
		report := m.runJob(ctx, job)
		s.Jobs = append(s.Jobs, report)
	}

	s.FinishedAt = m.now().UTC()
	m.logger.Info("backup finished",
		"jobs", len(s.Jobs),
		"completed", s.Count(StatusCompleted),
		"partial", s.Count(StatusPartial),
		"failed", s.Count(StatusFailed),
		"invalid", s.Count(StatusInvalid),
		"duration", s.Duration().Round(time.Millisecond))

	if runErr == nil && ctx.Err() != nil {
		runErr = errors.Wrap(ctx.Err(), "backup interrupted")
	}
	return s, runErr
}

func (m *Manager) runJob(ctx context.Context, job Job) JobReport {
	report := newJobReport(job)
	logger := m.logger.With("source", job.Source, "destination", job.Destination)

	plan := m.planJob(job)
	report.SourcePath = plan.SourcePath
	report.DestinationPath = plan.DestinationPath

	logger.Info("backup source", "path", plan.SourcePath)
	logger.Info("backup destination", "path", plan.DestinationPath)

	switch plan.Status {
	case StatusInvalid:
		logger.Error("cannot back up: source or destination not in root", "error", plan.Err)
		report.setErr(StatusInvalid, plan.Err)
		return report
	case StatusNothingToDo:
		logger.Debug("source does not exist, nothing to back up")
		report.Status = StatusNothingToDo
		return report
	case StatusFailed:
		logger.Error("cannot back up source", "error", plan.Err)
		report.setErr(StatusFailed, plan.Err)
		return report
	}

	quarantineBase := plan.SourcePath
	if m.quarantine == QuarantineBesideDestination {
		quarantineBase = plan.DestinationPath
	}
	quarantine, err := naming.QuarantinePath(quarantineBase)
	if err != nil {
		logger.Error("failed to allocate quarantine folder", "error", err)
		report.setErr(StatusFailed, err)
		return report
	}
	report.QuarantinePath = quarantine

	res, err := m.reconciler.Reconcile(ctx, reconcile.Task{
		SourceDir:     plan.SourcePath,
		DestDir:       plan.DestinationPath,
		QuarantineDir: quarantine,
		Policy:        job.Policy,
	})
	report.Result = res

	switch {
	case err != nil:
		logger.Error("backup job aborted", "error", err)
		report.setErr(StatusFailed, err)
	case res != nil && len(res.Failures) > 0:
		logger.Warn("backup job finished with failures", "failures", len(res.Failures))
		report.setErr(StatusPartial, errors.Newf("%d entries could not be backed up", len(res.Failures)))
	default:
		report.Status = StatusCompleted
	}

	if res != nil {
		logger.Info("backup job done",
			"status", string(report.Status),
			"relocated", res.Relocated,
			"renamed", res.Renamed,
			"quarantined", res.Quarantined,
			"ignored", res.Ignored,
			"bytes", res.Bytes)
	}
	return report
}

// Plan resolves and validates jobs without touching the filesystem.
func (m *Manager) Plan(jobs []Job) []JobPlan {
	plans := make([]JobPlan, 0, len(jobs))
	for _, job := range jobs {
		plans = append(plans, m.planJob(job))
	}
	return plans
}

func (m *Manager) planJob(job Job) JobPlan {
	plan := JobPlan{Job: job}

	if !job.Policy.Valid() {
		plan.Status = StatusInvalid
		plan.Err = errors.Wrapf(reconcile.ErrUnknownPolicy, "policy %d", int(job.Policy))
		return plan
	}

	src, err := resolveUnder(m.sourceRoot, job.Source)
	if err != nil {
		plan.Status = StatusInvalid
		plan.Err = errors.Wrapf(err, "source %q", job.Source)
		return plan
	}
	plan.SourcePath = src

	dst, err := resolveUnder(m.destRoot, job.Destination)
	if err != nil {
		plan.Status = StatusInvalid
		plan.Err = errors.Wrapf(err, "destination %q", job.Destination)
		return plan
	}
	plan.DestinationPath = dst

	info, err := os.Stat(src)
	switch {
	case errors.Is(err, os.ErrNotExist):
		plan.Status = StatusNothingToDo
	case err != nil:
		plan.Status = StatusFailed
		plan.Err = errors.Wrapf(err, "checking %s", src)
	case !info.IsDir():
		plan.Status = StatusFailed
		plan.Err = errors.Wrap(ErrNotDirectory, src)
	default:
		plan.Status = StatusReady
	}
	return plan
}

// resolveUnder joins rel onto root and checks that the result is a strict
// descendant of root. An absolute rel is taken as-is and must still land
// below root.
func resolveUnder(root, rel string) (string, error) {
	if rel == "" {
		return "", errors.Wrap(ErrEscapesRoot, "empty path")
	}
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, rel)
	}
	resolved, err := paths.Resolve(p)
	if err != nil {
		return "", err
	}
	if !paths.IsBelowRoot(root, resolved) {
		return "", errors.Wrapf(ErrEscapesRoot, "%s is not below %s", resolved, root)
	}
	return resolved, nil
}

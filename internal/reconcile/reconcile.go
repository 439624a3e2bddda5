// Package reconcile walks a source tree and relocates its entries into a
// destination tree according to a conflict Policy.
//
// For every directory level the walk:
//
//  1. creates the destination directory if it is missing;
//  2. lists the source directory (one level);
//  3. leaves entries matched by the IgnoreRules alone;
//  4. recurses into subdirectories and then removes the source subdirectory
//     with everything still inside it, including ignored entries;
//  5. moves files according to the Policy.
//
// Only ignored entries directly inside the directory handed to Reconcile
// survive; an ignored file nested in a subdirectory is deleted together with
// that subdirectory. A subdirectory in which any entry failed to move is kept
// so that nothing that was not backed up is deleted.
//
// Symlinks are never followed: a link to a directory is moved as a link like
// any other file, and its target is neither descended nor deleted.
package reconcile

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/autobackup/internal/logging"
	"github.com/thoreinstein/autobackup/internal/naming"
	"github.com/thoreinstein/autobackup/internal/paths"
	"github.com/thoreinstein/autobackup/internal/relocate"
)

// Mover moves one entry. *relocate.Relocator satisfies it.
type Mover interface {
	Relocate(src, dst string) error
}

// Task describes one reconciliation. All three directories are absolute.
type Task struct {
	SourceDir     string
	DestDir       string
	QuarantineDir string
	Policy        Policy
}

// Reconciler relocates source trees. It is not safe for concurrent use on
// overlapping trees.
type Reconciler struct {
	logger *slog.Logger
	ignore *IgnoreRules
	mover  Mover
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for per-entry messages.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIgnore sets the rules for entries that must not be touched.
func WithIgnore(rules *IgnoreRules) Option {
	return func(r *Reconciler) {
		r.ignore = rules
	}
}

// WithMover replaces the default relocate.Relocator.
func WithMover(m Mover) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.mover = m
		}
	}
}

// New creates a Reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		logger: logging.NewDiscard(),
		mover:  &relocate.Relocator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile relocates everything under task.SourceDir. Failures to move
// individual entries are collected in the Result and do not stop the walk.
// The returned error is non-nil when the walk was aborted: the top-level
// directories could not be prepared, a name could not be allocated, or ctx
// was cancelled. The Result is always non-nil and reflects the work done
// before the abort.
func (r *Reconciler) Reconcile(ctx context.Context, task Task) (*Result, error) {
	res := &Result{}
	if !task.Policy.Valid() {
		return res, errors.Wrapf(ErrUnknownPolicy, "policy %d", int(task.Policy))
	}
	err := r.reconcileDir(ctx, task, res)
	return res, err
}

func (r *Reconciler) reconcileDir(ctx context.Context, t Task, res *Result) error {
	if err := paths.EnsureDir(t.DestDir, 0); err != nil {
		return errors.Wrapf(err, "creating %s", t.DestDir)
	}

	entries, err := os.ReadDir(t.SourceDir)
	if err != nil {
		return errors.Wrapf(err, "listing %s", t.SourceDir)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "reconcile interrupted")
		}

		name := entry.Name()
		if r.ignore.Match(name) {
			r.logger.Debug("ignoring file", "path", filepath.Join(t.SourceDir, name))
			res.record(OutcomeIgnored, 0)
			continue
		}

		var err error
		if entry.IsDir() {
			err = r.reconcileSubdir(ctx, t, name, res)
		} else {
			err = r.reconcileFile(t, entry, res)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// reconcileSubdir recurses into t.SourceDir/name and removes it afterwards
// unless something inside could not be moved.
func (r *Reconciler) reconcileSubdir(ctx context.Context, t Task, name string, res *Result) error {
	sub := Task{
		SourceDir:     filepath.Join(t.SourceDir, name),
		DestDir:       filepath.Join(t.DestDir, name),
		QuarantineDir: filepath.Join(t.QuarantineDir, name),
		Policy:        t.Policy,
	}

	before := len(res.Failures)
	if err := r.reconcileDir(ctx, sub, res); err != nil {
		if isFatal(err) {
			return err
		}
		r.logger.Error("failed to back up folder", "source", sub.SourceDir, "destination", sub.DestDir, "error", err)
		res.fail(sub.SourceDir, sub.DestDir, err)
	}

	if failed := len(res.Failures) - before; failed > 0 {
		r.logger.Warn("keeping folder with entries that were not backed up",
			"source", sub.SourceDir, "failures", failed)
		return nil
	}

	r.logger.Debug("deleting folder", "path", sub.SourceDir)
	if err := os.RemoveAll(sub.SourceDir); err != nil {
		r.logger.Error("failed to delete folder", "path", sub.SourceDir, "error", err)
		res.fail(sub.SourceDir, "", errors.Wrapf(err, "deleting %s", sub.SourceDir))
		return nil
	}
	res.record(OutcomeRemoved, 0)
	return nil
}

// reconcileFile applies the policy to a non-directory entry. Symlinks land
// here too and are moved as links.
func (r *Reconciler) reconcileFile(t Task, entry fs.DirEntry, res *Result) error {
	name := entry.Name()
	src := filepath.Join(t.SourceDir, name)
	dst := filepath.Join(t.DestDir, name)
	outcome := OutcomeRelocated

	switch t.Policy {
	case PolicySkip:
		taken, err := paths.Exists(dst)
		if err != nil {
			r.logger.Error("failed to check destination", "source", src, "destination", dst, "error", err)
			res.fail(src, dst, err)
			return nil
		}
		if taken {
			dst = filepath.Join(t.QuarantineDir, name)
			outcome = OutcomeQuarantined
		}

	case PolicyKeepBoth:
		allocated, err := naming.KeepBothPath(t.DestDir, name)
		if err != nil {
			if errors.Is(err, naming.ErrExhausted) {
				return errors.Wrapf(err, "allocating name for %s", src)
			}
			r.logger.Error("failed to allocate destination name", "source", src, "destination", dst, "error", err)
			res.fail(src, dst, err)
			return nil
		}
		if allocated != dst {
			outcome = OutcomeRenamed
		}
		dst = allocated
	}

	var size int64
	if info, err := entry.Info(); err == nil {
		size = info.Size()
	}

	if err := r.mover.Relocate(src, dst); err != nil {
		r.logger.Error("failed to move file", "source", src, "destination", dst, "error", err)
		res.fail(src, dst, err)
		return nil
	}

	res.record(outcome, size)
	r.logger.Debug("moved file", "source", src, "destination", dst, "outcome", string(outcome))
	return nil
}

// isFatal reports errors that abort the whole job rather than one subtree.
func isFatal(err error) bool {
	return errors.Is(err, naming.ErrExhausted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

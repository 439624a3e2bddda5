package backup

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
)

// LockFileName is created in the source root while a run is in progress.
const LockFileName = ".autobackup.lock"

// RunLock keeps two runs from reconciling the same source root at once.
type RunLock struct {
	flock *flock.Flock
}

// Lock takes an exclusive, non-blocking lock on root. It returns ErrLocked
// when another process holds it.
func Lock(root string) (*RunLock, error) {
	l := &RunLock{flock: flock.New(filepath.Join(root, LockFileName))}

	locked, err := l.flock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "locking %s", root)
	}
	if !locked {
		return nil, errors.Wrap(ErrLocked, root)
	}
	return l, nil
}

// Path returns the lock file path.
func (l *RunLock) Path() string {
	return l.flock.Path()
}

// Unlock releases the lock and removes the lock file. It is a no-op when
// the lock is not held.
func (l *RunLock) Unlock() error {
	if l == nil || !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return errors.Wrap(err, "unlocking source root")
	}
	if err := os.Remove(l.flock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "removing lock file")
	}
	return nil
}

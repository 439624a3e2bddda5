// Package relocate moves a single file or directory entry to a new path,
// creating missing parent directories and falling back to copy+delete when
// the move crosses a filesystem boundary.
package relocate

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/autobackup/internal/paths"
	"github.com/thoreinstein/autobackup/pkg/fileutil"
)

// ErrDestinationExists is returned when something already occupies the
// destination. Relocate never overwrites.
var ErrDestinationExists = errors.New("destination already exists")

// Relocator moves entries. The zero value is ready to use.
type Relocator struct {
	// DirPerm is used for parent directories created on the way. Zero means
	// paths.DefaultDirPerm.
	DirPerm os.FileMode

	// rename is swapped in tests to simulate cross-device moves.
	rename func(oldpath, newpath string) error
}

// Relocate moves src to dst with a zero-value Relocator.
func Relocate(src, dst string) error {
	var r Relocator
	return r.Relocate(src, dst)
}

// Relocate ensures dst's parent chain exists and moves src there. On success
// src no longer exists. When a cross-device copy fails, the partial copy is
// removed and src is left untouched.
func (r *Relocator) Relocate(src, dst string) error {
	if err := paths.EnsureDir(filepath.Dir(dst), r.DirPerm); err != nil {
		return errors.Wrapf(err, "creating parent of %s", dst)
	}

	taken, err := paths.Exists(dst)
	if err != nil {
		return errors.Wrapf(err, "checking %s", dst)
	}
	if taken {
		return errors.Wrap(ErrDestinationExists, dst)
	}

	rename := r.rename
	if rename == nil {
		rename = os.Rename
	}

	renameErr := rename(src, dst)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return errors.Wrapf(renameErr, "moving %s", src)
	}

	if _, err := fileutil.CopyTree(src, dst); err != nil {
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			return errors.Wrapf(errors.Join(err, rmErr), "copying %s across devices (partial copy left at %s)", src, dst)
		}
		return errors.Wrapf(err, "copying %s across devices", src)
	}
	if err := os.RemoveAll(src); err != nil {
		return errors.Wrapf(err, "removing %s after copy", src)
	}
	return nil
}

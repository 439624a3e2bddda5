package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/autobackup/internal/errors"
)

// CopyFile copies the regular file src to dst, preserving its permission
// bits, and returns the number of bytes written. dst must not exist; the
// parent directory must.
func CopyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat source file")
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return 0, errors.Wrap(err, "creating destination file")
	}

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		return n, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Sync(); err != nil {
		dstFile.Close()
		return n, errors.Wrap(err, "syncing destination file")
	}

	if err := dstFile.Close(); err != nil {
		return n, errors.Wrap(err, "closing destination file")
	}

	// Umask may have stripped bits at creation time
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, errors.Wrap(err, "setting permissions")
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return n, errors.Wrap(err, "setting modification time")
	}

	return n, nil
}

// CopyTree copies src to dst. src may be a regular file, a symlink (copied as
// a link, never followed) or a directory, which is copied recursively. dst
// must not exist. It returns the number of file bytes copied.
func CopyTree(src, dst string) (int64, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return 0, errors.Wrap(err, "stat source")
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return 0, errors.Wrap(err, "reading symlink")
		}
		if err := os.Symlink(target, dst); err != nil {
			return 0, errors.Wrap(err, "creating symlink")
		}
		return 0, nil

	case info.IsDir():
		if err := os.Mkdir(dst, info.Mode().Perm()); err != nil {
			return 0, errors.Wrap(err, "creating directory")
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return 0, errors.Wrap(err, "reading directory")
		}
		var total int64
		for _, entry := range entries {
			n, err := CopyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()))
			total += n
			if err != nil {
				return total, err
			}
		}
		return total, nil

	case info.Mode().IsRegular():
		return CopyFile(src, dst)

	default:
		return 0, errors.Newf("unsupported file type %s for %s", info.Mode().Type(), src)
	}
}

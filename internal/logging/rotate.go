package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the run log.
const (
	// DefaultMaxSizeMB is the size at which the log file is rotated.
	DefaultMaxSizeMB = 8
	// DefaultMaxBackups is the number of rotated files kept next to the log.
	DefaultMaxBackups = 10
	// DefaultFileName is the log file name placed in the source root.
	DefaultFileName = "autobackup.log"
)

// RotateConfig controls the size-based rotation of a log file.
type RotateConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// NewRotatingFile opens a size-rotated log file. The parent directory must
// exist; the file itself is created on first write. Callers own the returned
// closer.
func NewRotatingFile(cfg RotateConfig) (io.WriteCloser, error) {
	if cfg.Path == "" {
		return nil, errors.New("log file path is required")
	}

	dir := filepath.Dir(cfg.Path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "checking log directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("log directory %s is not a directory", dir)
	}

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = DefaultMaxSizeMB
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = DefaultMaxBackups
	}

	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}, nil
}

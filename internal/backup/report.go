package backup

import (
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/autobackup/pkg/fileutil"
)

// WriteReport stores s as indented JSON at path, replacing any previous
// report atomically.
func WriteReport(path string, s *Summary) error {
	if s == nil {
		return errors.New("summary is required")
	}
	if err := fileutil.AtomicWriteJSON(path, s); err != nil {
		return errors.Wrapf(err, "writing report %s", path)
	}
	return nil
}

package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/autobackup/internal/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0o600))
}

func TestQuarantinePath(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"nothing taken", nil, "foo.skipped1"},
		{"first taken", []string{"foo.skipped1"}, "foo.skipped2"},
		{"gap is reused", []string{"foo.skipped1", "foo.skipped3"}, "foo.skipped2"},
		{"file occupies name", []string{"foo.skipped1/inner.txt", "foo.skipped2"}, "foo.skipped3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, "foo"), 0o755))
			for _, e := range tt.existing {
				touch(t, filepath.Join(dir, e))
			}

			got, err := QuarantinePath(filepath.Join(dir, "foo"))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestQuarantinePath_TrailingSeparator(t *testing.T) {
	dir := t.TempDir()
	got, err := QuarantinePath(filepath.Join(dir, "foo") + string(filepath.Separator))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "foo.skipped1"), got)
}

func TestQuarantinePath_Exhausted(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= MaxSuffix; i++ {
		require.NoError(t, os.Mkdir(filepath.Join(dir, fmt.Sprintf("foo.skipped%d", i)), 0o755))
	}

	_, err := QuarantinePath(filepath.Join(dir, "foo"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))

	var exhausted *ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, MaxSuffix, exhausted.Limit)
}

func TestKeepBothPath(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		existing []string
		want     string
	}{
		{"free name is used as is", "report.pdf", nil, "report.pdf"},
		{"one collision", "report.pdf", []string{"report.pdf"}, "report 2.pdf"},
		{"two collisions", "report.pdf", []string{"report.pdf", "report 2.pdf"}, "report 3.pdf"},
		{"gap is reused", "report.pdf", []string{"report.pdf", "report 3.pdf"}, "report 2.pdf"},
		{"no extension", "README", []string{"README"}, "README 2"},
		{"dotfile", ".bashrc", []string{".bashrc"}, ".bashrc 2"},
		{"double extension", "a.tar.gz", []string{"a.tar.gz"}, "a.tar 2.gz"},
		{"directory occupies name", "photos", []string{"photos/x.jpg"}, "photos 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, e := range tt.existing {
				touch(t, filepath.Join(dir, e))
			}

			got, err := KeepBothPath(dir, tt.file)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)

			_, statErr := os.Lstat(got)
			assert.True(t, os.IsNotExist(statErr), "allocated path must not exist")
		})
	}
}

func TestKeepBothPath_NCollisions(t *testing.T) {
	for _, n := range []int{1, 5, 42, MaxSuffix - 1} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			dir := t.TempDir()
			touch(t, filepath.Join(dir, "file.txt"))
			for i := 2; i <= n; i++ {
				touch(t, filepath.Join(dir, fmt.Sprintf("file %d.txt", i)))
			}

			got, err := KeepBothPath(dir, "file.txt")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, fmt.Sprintf("file %d.txt", n+1)), got)
		})
	}
}

func TestKeepBothPath_Exhausted(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "file.txt"))
	for i := 2; i <= MaxSuffix; i++ {
		touch(t, filepath.Join(dir, fmt.Sprintf("file %d.txt", i)))
	}

	_, err := KeepBothPath(dir, "file.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Contains(t, err.Error(), "file.txt")
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name, stem, ext string
	}{
		{"report.pdf", "report", ".pdf"},
		{"a.tar.gz", "a.tar", ".gz"},
		{".bashrc", ".bashrc", ""},
		{"notes.", "notes.", ""},
		{"README", "README", ""},
		{"..", "..", ""},
	}
	for _, tt := range tests {
		stem, ext := SplitName(tt.name)
		if stem != tt.stem || ext != tt.ext {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.name, stem, ext, tt.stem, tt.ext)
		}
	}
}

package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/autobackup/internal/errors"
)

func TestConfigHome(t *testing.T) {
	got := ConfigHome()
	if got == "" {
		t.Error("ConfigHome() returned empty string")
	}
	// Verify it's an absolute path
	if !filepath.IsAbs(got) {
		t.Errorf("ConfigHome() = %q, want absolute path", got)
	}
}

func TestDefaultConfigCandidates(t *testing.T) {
	got := DefaultConfigCandidates()
	if len(got) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(got))
	}
	if got[0] != ConfigFileName || got[1] != "autobackup.toml" {
		t.Errorf("working directory candidates = %q, want %q first", got[:2], ConfigFileName)
	}
	for i, name := range []string{"config.yaml", "config.toml"} {
		c := got[i+2]
		if !strings.HasPrefix(c, ConfigHome()) || !strings.HasSuffix(c, filepath.Join(AppName, name)) {
			t.Errorf("candidate %d = %q, want <ConfigHome>/%s/%s", i+2, c, AppName, name)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("creates new directory with default perms", func(t *testing.T) {
		path := filepath.Join(tmpDir, "new-dir")
		err := EnsureDir(path, 0)
		if err != nil {
			t.Fatalf("EnsureDir failed: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("expected directory, got file")
		}
	})

	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(tmpDir, "parent", "child", "grandchild")
		if err := EnsureDir(path, 0o755); err != nil {
			t.Fatalf("EnsureDir failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("stat failed: %v", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		path := filepath.Join(tmpDir, "existing")
		if err := os.Mkdir(path, 0o755); err != nil {
			t.Fatal(err)
		}

		if err := EnsureDir(path, 0o700); err != nil {
			t.Errorf("EnsureDir failed on existing directory: %v", err)
		}

		// Note: MkdirAll (and thus EnsureDir) does NOT change permissions of existing directories.
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("expected original perm 0755 to be preserved, got %o", info.Mode().Perm())
		}
	})
}

func TestRequireDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := RequireDir(dir); err != nil {
		t.Errorf("RequireDir(dir) = %v, want nil", err)
	}
	if err := RequireDir(file); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("RequireDir(file) = %v, want ErrNotDirectory", err)
	}
	if err := RequireDir(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("RequireDir(missing) = %v, want not-exist", err)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	dangling := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "nowhere"), dangling); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"regular file", file, true},
		{"directory", dir, true},
		{"dangling symlink", dangling, true},
		{"missing", filepath.Join(dir, "missing"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Exists(tt.path)
			if err != nil {
				t.Fatalf("Exists() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

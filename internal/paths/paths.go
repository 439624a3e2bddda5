package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG config home.
const AppName = "autobackup"

// ConfigFileName is the file searched for in the working directory when no
// --config flag is given. It is also the file written by "autobackup init".
const ConfigFileName = "autobackup.yaml"

// tomlConfigFileName is the TOML alternative to ConfigFileName.
const tomlConfigFileName = "autobackup.toml"

// ErrNotDirectory indicates a path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0755) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DefaultConfigCandidates returns the config files looked up, in order, when
// the user does not pass --config:
//
//   - ./autobackup.yaml
//   - ./autobackup.toml
//   - <ConfigHome>/autobackup/config.yaml
//   - <ConfigHome>/autobackup/config.toml
func DefaultConfigCandidates() []string {
	dir := filepath.Join(ConfigHome(), AppName)
	return []string{
		ConfigFileName,
		tomlConfigFileName,
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.toml"),
	}
}

// RequireDir returns nil when path exists and is a directory.
func RequireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "checking %s", path)
	}
	if !info.IsDir() {
		return errors.Wrap(ErrNotDirectory, path)
	}
	return nil
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Exists reports whether anything (including a dangling symlink) occupies
// path. Errors other than "not exist" are returned so callers never mistake
// an unreadable location for a free one.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/autobackup/internal/config"
)

func TestInit_DefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created autobackup.yaml")

	cfg, err := config.Load("autobackup.yaml")
	require.NoError(t, err)
	assert.Equal(t, config.Sample().Backup, cfg.Backup)
}

func TestInit_DoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# keep me\n"), 0o600))

	stdout, _, err := execute(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "already exists")
	assert.Equal(t, "# keep me\n", readFile(t, path))

	_, _, err = execute(t, "init", path, "--force")
	require.NoError(t, err)
	assert.NotEqual(t, "# keep me\n", readFile(t, path))
}

func TestInit_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autobackup.toml")

	_, _, err := execute(t, "init", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Backup, len(config.Sample().Backup))
}

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of c and its subcommands to its default so
// tests can execute the shared rootCmd repeatedly.
func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(t, sub)
	}
}

// execute runs the CLI with args and returns its stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t, rootCmd)
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

type workspace struct {
	src, dst, config string
}

const testConfig = `loglevel: DEBUG
filesToIgnore:
  - .DS_Store
backup:
  - source: docs
    destination: docs
    fileExistsAction: skip
  - source: reports
    destination: reports
    fileExistsAction: keep_both
`

func newWorkspace(t *testing.T, config string) workspace {
	t.Helper()
	base := t.TempDir()
	w := workspace{
		src:    filepath.Join(base, "src"),
		dst:    filepath.Join(base, "dst"),
		config: filepath.Join(base, "autobackup.yaml"),
	}
	require.NoError(t, os.MkdirAll(w.src, 0o755))
	require.NoError(t, os.MkdirAll(w.dst, 0o755))
	require.NoError(t, os.WriteFile(w.config, []byte(config), 0o600))
	return w
}

func (w workspace) args(extra ...string) []string {
	return append([]string{"--rootSrc", w.src, "--rootDst", w.dst, "--config", w.config}, extra...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

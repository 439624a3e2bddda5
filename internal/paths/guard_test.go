package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWithinRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "rootless"), 0o755))

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"root itself", root, true},
		{"existing child", filepath.Join(root, "docs"), true},
		{"not yet created child", filepath.Join(root, "music", "2024"), true},
		{"dot-dot back inside", filepath.Join(root, "docs", "..", "music"), true},
		{"root with trailing dot", filepath.Join(root, "."), true},
		{"parent of root", base, false},
		{"dot-dot escape", filepath.Join(root, ".."), false},
		{"deep dot-dot escape", filepath.Join(root, "docs", "..", "..", "other"), false},
		{"sibling sharing prefix", filepath.Join(base, "rootless"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinRoot(root, tt.candidate))
		})
	}
}

func TestIsWithinRoot_Symlinks(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))

	escape := filepath.Join(root, "escape")
	if err := os.Symlink(outside, escape); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	rootLink := filepath.Join(base, "root-link")
	require.NoError(t, os.Symlink(root, rootLink))

	assert.False(t, IsWithinRoot(root, escape), "symlink pointing outside must be rejected")
	assert.False(t, IsWithinRoot(root, filepath.Join(escape, "new")), "children of escaping symlink must be rejected")
	assert.True(t, IsWithinRoot(rootLink, filepath.Join(root, "docs")), "symlinked root resolves to the same tree")
	assert.True(t, IsWithinRoot(root, filepath.Join(rootLink, "docs")))
}

func TestIsBelowRoot(t *testing.T) {
	root := t.TempDir()

	assert.False(t, IsBelowRoot(root, root))
	assert.False(t, IsBelowRoot(root, filepath.Join(root, "docs", "..")))
	assert.True(t, IsBelowRoot(root, filepath.Join(root, "docs")))
	assert.False(t, IsBelowRoot(root, filepath.Dir(root)))
}

func TestResolve_RelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := Resolve(filepath.Join("a", "..", "b"))
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(want, "b"), got)
}

package backup

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock(t *testing.T) {
	root := t.TempDir()

	first, err := Lock(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, LockFileName), first.Path())
	assert.FileExists(t, first.Path())

	_, err = Lock(root)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Unlock())
	assert.NoFileExists(t, first.Path())

	again, err := Lock(root)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}

func TestUnlock_NotHeld(t *testing.T) {
	var l *RunLock
	assert.NoError(t, l.Unlock())

	held, err := Lock(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, held.Unlock())
	assert.NoError(t, held.Unlock(), "second unlock is a no-op")
}

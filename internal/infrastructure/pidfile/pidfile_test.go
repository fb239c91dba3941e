package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDFile_AcquireAndRelease(t *testing.T) {
	// Arrange
	lock := New(filepath.Join(t.TempDir(), "run.pid"))

	// Act
	require.NoError(t, lock.Acquire())
	pid, err := lock.Holder()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, lock.Release())
	_, err = os.Stat(lock.Path())
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, lock.Release())
}

func TestPIDFile_ReplacesStaleLock(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "run.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid\n"), 0o644))
	lock := New(path)

	// Act
	err := lock.Acquire()

	// Assert
	require.NoError(t, err)
	pid, err := lock.Holder()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestPIDFile_RejectsLiveHolder(t *testing.T) {
	// Arrange: the parent of the test binary is alive for the duration of the test
	path := filepath.Join(t.TempDir(), "run.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())+"\n"), 0o644))
	lock := New(path)

	// Act
	err := lock.Acquire()

	// Assert
	assert.ErrorIs(t, err, ErrLocked)
}

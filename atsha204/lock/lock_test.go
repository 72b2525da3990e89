package lock

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atsha204.lock")

	lk, err := Acquire(path, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, lk)

	assert.NoError(t, lk.Release())
}

func TestAcquireBlocksConcurrentHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atsha204.lock")

	first, err := Acquire(path, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	defer first.Release()

	_, err = Acquire(path, 100*time.Millisecond, 10*time.Millisecond)
	assert.Error(t, err)
}

func TestAcquireSucceedsAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atsha204.lock")

	first, err := Acquire(path, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, first.Release())

	second, err := Acquire(path, time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	assert.NoError(t, second.Release())
}

func TestReleaseOnNilLockIsNoop(t *testing.T) {
	var lk *Lock
	assert.NoError(t, lk.Release())
}

func TestAcquireDefaultsAppliedForZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atsha204.lock")

	lk, err := Acquire(path, 0, 0)
	require.NoError(t, err)
	assert.NoError(t, lk.Release())
}

// Package lock implements the cross-process exclusion mechanism that
// guarantees at most one process drives the physical chip at a time
// (spec §4.6, §5). A well-known filesystem path holds an advisory
// exclusive lock; acquisition polls with a fixed back-off up to a
// wall-clock timeout, then fails. Release is best-effort: the kernel
// releases the lock on process termination regardless.
//
// Ground: original_source/src/libatsha204/api.c
// (atsha_try_lock_file/atsha_lock/atsha_unlock), translated from
// flock(2) to golang.org/x/sys/unix.Flock.
package lock

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultPath is the well-known lock file path used when callers don't
// override it. Existence and lock state are all that matter; contents
// are irrelevant (spec §6 "Persisted state").
const DefaultPath = "/var/run/atsha204.lock"

// DefaultTimeout bounds how long Acquire polls before giving up.
const DefaultTimeout = 5 * time.Second

// DefaultBackoff is the sleep between failed lock attempts.
const DefaultBackoff = 50 * time.Millisecond

// Lock is a held advisory file lock.
type Lock struct {
	file *os.File
}

// Acquire opens (creating if necessary) the lock file at path and polls
// for an exclusive, non-blocking flock until timeout elapses.
func Acquire(path string, timeout, backoff time.Duration) (*Lock, error) {
	if path == "" {
		path = DefaultPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("lock: open %s: %w", path, err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &Lock{file: f}, nil
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, fmt.Errorf("lock: timed out waiting for %s", path)
		}
		time.Sleep(backoff)
	}
}

// Release unlocks and closes the lock file. The kernel would release the
// lock on process exit regardless; this is best-effort cleanup for the
// common path.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return err
}

// Package filelock provides cross-process file locking built on OS advisory
// locks, including a lax, heartbeat-monitored coordinator for callers that
// must never block indefinitely on a dead lock holder.
package filelock

import (
	"fmt"

	"github.com/gofrs/flock"

	"github.com/calder/fskit/internal/fileutil"
)

// Locker is the platform lock capability the coordinator is built on:
// non-blocking exclusive acquisition and release. The flock-backed FileLock
// is the production implementation; tests may substitute their own.
type Locker interface {
	TryLock() (bool, error)
	Unlock() error
}

// FileLock wraps an OS advisory file lock for coordinating access to files.
// Advisory locks are respected only by cooperating processes; they do not
// prevent raw reads or writes by anyone else.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path. The lock file is
// created on first acquisition if it does not exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock, blocking until the lock is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns true if the lock was acquired, false if it is held elsewhere.
// An error means the lock file itself could not be opened or locked.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// LockAndWrite acquires a blocking lock, performs an atomic write, and
// releases the lock. The lock path is derived by appending ".lock" to the
// target path.
func LockAndWrite(path string, data []byte) error {
	lock := NewFileLock(path + ".lock")

	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	return fileutil.AtomicWrite(path, data, 0644)
}

//go:build windows

package index

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

// The lock covers the first byte of index.lock.
const lockedBytes uint32 = 1

// tryLock takes an exclusive lock on f without waiting.
func tryLock(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, lockedBytes, 0, ol)
}

func unlock(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockedBytes, 0, ol)
}

// lockHeld reports whether tryLock failed because another process holds the lock.
func lockHeld(err error) bool {
	switch {
	case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
		return true
	case errors.Is(err, windows.ERROR_SHARING_VIOLATION):
		return true
	}
	return false
}

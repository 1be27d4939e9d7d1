//go:build windows

package daemon

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// Windows locks byte ranges; the first byte stands for the whole file.
const lockedBytes = 1

func (l *LockFile) platformLock(f *os.File) error {
	ol := new(windows.Overlapped)
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)

	switch err := windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, lockedBytes, 0, ol); {
	case err == nil:
		return nil
	case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
		return ErrLockHeld
	default:
		return fmt.Errorf("LockFileEx %s: %w", l.path, err)
	}
}

func (l *LockFile) platformUnlock(f *os.File) {
	windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockedBytes, 0, new(windows.Overlapped))
}

//go:build windows

package table

import (
	"os"

	"golang.org/x/sys/windows"
)

const lockBytes = ^uint32(0)

// flock blocks until an exclusive lock is held on f.
func flock(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, lockBytes, lockBytes, ol)
}

func funlock(f *os.File) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockBytes, lockBytes, ol)
}

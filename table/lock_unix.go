//go:build !windows

package table

import (
	"os"

	"golang.org/x/sys/unix"
)

// flock blocks until an exclusive advisory lock is held on f.
func flock(f *os.File) error {
	for {
		err := unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

func funlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

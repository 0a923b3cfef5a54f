//go:build linux

package format

import (
	"errors"

	"golang.org/x/sys/unix"
)

type fder interface {
	Fd() uintptr
}

func preallocate(f File, size int64) error {
	fd, ok := f.(fder)
	if !ok {
		return f.Truncate(size)
	}
	err := unix.Fallocate(int(fd.Fd()), 0, 0, size)
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOSYS) {
		// tmpfs on older kernels and some network filesystems
		return f.Truncate(size)
	}
	return err
}

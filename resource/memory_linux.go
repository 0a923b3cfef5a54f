//go:build linux

package resource

import (
	"math"

	"golang.org/x/sys/unix"
)

func physicalMemory() int64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	total := uint64(info.Totalram)
	if total > math.MaxInt64/unit {
		return math.MaxInt64
	}
	return int64(total * unit)
}

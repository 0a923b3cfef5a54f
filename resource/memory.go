package resource

import (
	"math"
	"runtime/debug"
	"strconv"
)

// addressSpace bounds any single process allocation: 128 TiB of user
// address space on 64-bit platforms, 2 GiB on 32-bit ones.
var addressSpace = func() int64 {
	if strconv.IntSize == 64 {
		return 1 << 47
	}
	return math.MaxInt32
}()

// SystemMemory returns the most memory a matrix may reserve without a
// configured limit: the smaller of physical memory (where the platform
// reports it), the Go runtime memory limit and the address space.
func SystemMemory() int64 {
	limit := addressSpace
	if soft := debug.SetMemoryLimit(-1); soft > 0 && soft < limit {
		limit = soft
	}
	if phys := physicalMemory(); phys > 0 && phys < limit {
		limit = phys
	}
	return limit
}

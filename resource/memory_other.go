//go:build !linux

package resource

// physicalMemory is unknown here; SystemMemory falls back to the runtime
// limit and the address space.
func physicalMemory() int64 { return 0 }

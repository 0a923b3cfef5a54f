package mem

import (
	"fmt"
	"math"
	"unsafe"
)

// Alignment is the byte alignment of every buffer returned by this package.
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// Stride is size rounded up to a multiple of Alignment.
func Stride(size int) int {
	return (size + Alignment - 1) &^ (Alignment - 1)
}

// Slab returns n buffers of size bytes backed by one aligned allocation.
// Each buffer has cap == len, so appending to one never spills into the next.
func Slab(n, size int) ([][]byte, error) {
	if n <= 0 || size <= 0 {
		return nil, fmt.Errorf("mem: invalid slab %d x %d", n, size)
	}
	stride := Stride(size)
	if stride < size || stride > math.MaxInt/n {
		return nil, fmt.Errorf("mem: slab %d x %d overflows", n, size)
	}

	backing := AllocAligned(stride * n)
	out := make([][]byte, n)
	for i := range out {
		off := i * stride
		out[i] = backing[off : off+size : off+size]
	}
	return out, nil
}

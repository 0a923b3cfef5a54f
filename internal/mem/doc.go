// Package mem provides memory allocation utilities.
//
// # Aligned Slabs
//
// Slab carves equally sized buffers out of a single allocation. Every buffer
// starts on a 64-byte boundary so segment copies never share a cache line
// with a neighbouring slot.
package mem

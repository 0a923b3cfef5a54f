// Package mmap maps segment files read-only into memory.
//
// A Mapping exposes the whole file as a byte slice. Region returns a view
// of one byte range, which is how read-only consumers look at a single
// segment without copying it out of the page cache:
//
//	m, err := mmap.Open("grid.seg")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessRandom)
//	r, err := m.Region(off, segmentBytes)
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// Close is idempotent. Slices returned by Bytes or Region.Bytes must not be
// used after Close returns.
package mmap

// Package residency tracks which segments are held in memory.
//
// A Table combines four structures over a fixed pool of slots:
//
//   - the slot array (buffer, dirty flag, segment, age links)
//   - the load index (segment -> slot)
//   - the age queue, an intrusive doubly linked list of slot indices
//   - the free stack of unoccupied slots
//
// The age queue stores prev/next as int32 slot indices rather than
// pointers, so moving a slot to the most recently used end and picking the
// least recently used victim are both O(1).
//
// Table performs no I/O. The cache stages a page-in in the scratch buffer,
// writes back the victim if needed, and only then calls Install, which
// swaps the scratch buffer into the slot. A failed page-in or write-back
// therefore leaves the table untouched.
package residency

package residency

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/segcache/internal/mem"
)

// None marks an empty slot, an absent index entry or a queue end.
const None = -1

// denseIndexLimit is the largest segment count indexed by a flat slice.
// Larger grids fall back to a map keyed by segment.
const denseIndexLimit = 1 << 24

// sparseEntryBytes approximates the map cost of one resident segment.
const sparseEntryBytes = 32

// IndexBytes is the memory the load index of New(numSlots, numSegments, _)
// occupies.
func IndexBytes(numSlots int, numSegments int64) int64 {
	if numSegments <= denseIndexLimit {
		return 4 * numSegments
	}
	return int64(numSlots) * sparseEntryBytes
}

var errCorrupt = errors.New("residency: invariant violated")

type slot struct {
	buf   []byte
	seg   int64
	dirty bool
	// Age queue links, slot indices or None.
	prev, next int32
}

// Table is the resident slot table of a segment cache. It owns one data
// buffer per slot plus a scratch buffer used to stage page-ins.
//
// Every slot is either on the free stack or in the age queue, never both.
// The age queue runs from the least recently used slot (head) to the most
// recently used one (tail).
type Table struct {
	slots   []slot
	scratch []byte

	dense  []int32
	sparse map[int64]int32

	free       []int32
	head, tail int32
	resident   int
}

// New allocates numSlots buffers of segmentBytes each, plus the scratch
// buffer, from one aligned slab. All slots start on the free stack.
func New(numSlots int, numSegments int64, segmentBytes int) (*Table, error) {
	if numSlots <= 0 || numSlots > math.MaxInt32 {
		return nil, fmt.Errorf("residency: invalid slot count %d", numSlots)
	}
	if numSegments <= 0 || segmentBytes <= 0 {
		return nil, fmt.Errorf("residency: invalid geometry (%d segments of %d bytes)", numSegments, segmentBytes)
	}

	bufs, err := mem.Slab(numSlots+1, segmentBytes)
	if err != nil {
		return nil, fmt.Errorf("residency: %w", err)
	}

	t := &Table{
		slots:   make([]slot, numSlots),
		scratch: bufs[numSlots],
		free:    make([]int32, 0, numSlots),
		head:    None,
		tail:    None,
	}

	if numSegments <= denseIndexLimit {
		t.dense = make([]int32, numSegments)
		for i := range t.dense {
			t.dense[i] = None
		}
	} else {
		t.sparse = make(map[int64]int32, numSlots)
	}

	// Push in reverse so slot 0 is handed out first.
	for i := numSlots - 1; i >= 0; i-- {
		t.slots[i] = slot{buf: bufs[i], seg: None, prev: None, next: None}
		t.free = append(t.free, int32(i))
	}

	return t, nil
}

// Cap is the number of slots.
func (t *Table) Cap() int { return len(t.slots) }

// Resident is the number of occupied slots.
func (t *Table) Resident() int { return t.resident }

// Lookup returns the slot holding seg.
func (t *Table) Lookup(seg int64) (int, bool) {
	if t.dense != nil {
		if seg < 0 || seg >= int64(len(t.dense)) {
			return None, false
		}
		s := t.dense[seg]
		return int(s), s != None
	}
	s, ok := t.sparse[seg]
	if !ok {
		return None, false
	}
	return int(s), true
}

func (t *Table) setIndex(seg int64, s int32) {
	if t.dense != nil {
		t.dense[seg] = s
		return
	}
	if s == None {
		delete(t.sparse, seg)
		return
	}
	t.sparse[seg] = s
}

// Buffer returns the data buffer of slot s.
func (t *Table) Buffer(s int) []byte { return t.slots[s].buf }

// Segment returns the segment held by slot s, or None.
func (t *Table) Segment(s int) int64 { return t.slots[s].seg }

// Dirty reports whether slot s has unwritten changes.
func (t *Table) Dirty(s int) bool { return t.slots[s].dirty }

// MarkDirty flags slot s as modified.
func (t *Table) MarkDirty(s int) { t.slots[s].dirty = true }

// MarkClean clears the dirty flag of slot s.
func (t *Table) MarkClean(s int) { t.slots[s].dirty = false }

// Scratch returns the staging buffer. Its content is replaced by Install.
func (t *Table) Scratch() []byte { return t.scratch }

// Touch moves slot s to the most recently used end of the age queue.
func (t *Table) Touch(s int) {
	i := int32(s)
	if t.tail == i {
		return
	}
	t.unlink(i)
	t.pushTail(i)
}

// Candidate returns the slot the next Install should use: the top of the
// free stack if any slot is free, otherwise the least recently used slot.
// It does not change the table.
func (t *Table) Candidate() (s int, evicts bool) {
	if n := len(t.free); n > 0 {
		return int(t.free[n-1]), false
	}
	return int(t.head), true
}

// Install makes slot s (as returned by Candidate) hold seg. The scratch
// buffer becomes the slot buffer and the previous slot buffer becomes the
// scratch buffer. Any segment previously in s is dropped from the index;
// the caller must have written it back if it was dirty.
func (t *Table) Install(s int, seg int64) {
	i := int32(s)
	sl := &t.slots[i]

	if sl.seg == None {
		n := len(t.free)
		if n == 0 || t.free[n-1] != i {
			panic(fmt.Sprintf("residency: install into slot %d which is not the free candidate", s))
		}
		t.free = t.free[:n-1]
		t.resident++
	} else {
		t.setIndex(sl.seg, None)
		t.unlink(i)
	}

	sl.buf, t.scratch = t.scratch, sl.buf
	sl.seg = seg
	sl.dirty = false
	t.setIndex(seg, i)
	t.pushTail(i)
}

// Oldest returns the segments in age order, least recently used first.
func (t *Table) Oldest() []int64 {
	out := make([]int64, 0, t.resident)
	for i := t.head; i != None; i = t.slots[i].next {
		out = append(out, t.slots[i].seg)
	}
	return out
}

// Each calls fn for every occupied slot in age order.
func (t *Table) Each(fn func(s int, seg int64, dirty bool)) {
	for i := t.head; i != None; {
		next := t.slots[i].next
		fn(int(i), t.slots[i].seg, t.slots[i].dirty)
		i = next
	}
}

// Release drops every buffer. The table must not be used afterwards.
func (t *Table) Release() {
	for i := range t.slots {
		t.slots[i].buf = nil
	}
	t.scratch = nil
	t.dense = nil
	t.sparse = nil
	t.free = nil
	t.head, t.tail = None, None
	t.resident = 0
}

func (t *Table) unlink(i int32) {
	sl := &t.slots[i]
	if sl.prev != None {
		t.slots[sl.prev].next = sl.next
	} else {
		t.head = sl.next
	}
	if sl.next != None {
		t.slots[sl.next].prev = sl.prev
	} else {
		t.tail = sl.prev
	}
	sl.prev, sl.next = None, None
}

func (t *Table) pushTail(i int32) {
	sl := &t.slots[i]
	sl.prev = t.tail
	sl.next = None
	if t.tail != None {
		t.slots[t.tail].next = i
	} else {
		t.head = i
	}
	t.tail = i
}

// Validate checks the table invariants: every slot is in exactly one of the
// free stack and the age queue, and the index agrees with slot contents.
func (t *Table) Validate() error {
	seen := make([]uint8, len(t.slots))

	for _, i := range t.free {
		seen[i]++
		sl := t.slots[i]
		if sl.seg != None || sl.dirty || sl.prev != None || sl.next != None {
			return fmt.Errorf("%w: free slot %d is not empty", errCorrupt, i)
		}
	}

	queued := 0
	prev := int32(None)
	for i := t.head; i != None; i = t.slots[i].next {
		if queued > len(t.slots) {
			return fmt.Errorf("%w: age queue cycle", errCorrupt)
		}
		seen[i]++
		queued++
		sl := t.slots[i]
		if sl.prev != prev {
			return fmt.Errorf("%w: slot %d back link %d, want %d", errCorrupt, i, sl.prev, prev)
		}
		if sl.seg == None {
			return fmt.Errorf("%w: queued slot %d is empty", errCorrupt, i)
		}
		if got, ok := t.Lookup(sl.seg); !ok || got != int(i) {
			return fmt.Errorf("%w: index for segment %d is %d, want %d", errCorrupt, sl.seg, got, i)
		}
		prev = i
	}
	if prev != t.tail {
		return fmt.Errorf("%w: tail %d, want %d", errCorrupt, t.tail, prev)
	}
	if queued != t.resident {
		return fmt.Errorf("%w: %d queued slots, resident count %d", errCorrupt, queued, t.resident)
	}

	for i, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: slot %d appears %d times across free stack and age queue", errCorrupt, i, n)
		}
	}

	indexed := 0
	if t.dense != nil {
		for _, s := range t.dense {
			if s != None {
				indexed++
			}
		}
	} else {
		indexed = len(t.sparse)
	}
	if indexed != t.resident {
		return fmt.Errorf("%w: %d indexed segments, resident count %d", errCorrupt, indexed, t.resident)
	}
	return nil
}

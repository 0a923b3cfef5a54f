package segcache

import (
	"time"

	"github.com/hupe1980/segcache/internal/pager"
	"github.com/hupe1980/segcache/internal/residency"
)

// Get copies the cell at (row, col) into dst, which must be exactly
// CellSize bytes.
func (m *Matrix) Get(row, col int64, dst []byte) error {
	s, off, err := m.cell(row, col, len(dst))
	if err != nil {
		return err
	}
	copy(dst, m.table.Buffer(s)[off:])
	return nil
}

// Put stores src, which must be exactly CellSize bytes, as the cell at
// (row, col). The segment is written back on eviction, Flush or Close.
func (m *Matrix) Put(row, col int64, src []byte) error {
	s, off, err := m.cell(row, col, len(src))
	if err != nil {
		return err
	}
	copy(m.table.Buffer(s)[off:], src)
	m.table.MarkDirty(s)
	return nil
}

// GetFlat is Get(FlatRow, i, dst).
func (m *Matrix) GetFlat(i int64, dst []byte) error { return m.Get(FlatRow, i, dst) }

// PutFlat is Put(FlatRow, i, src).
func (m *Matrix) PutFlat(i int64, src []byte) error { return m.Put(FlatRow, i, src) }

// cell makes the segment of (row, col) resident and returns its slot and
// the byte offset of the cell in the slot buffer. n is the caller's
// buffer length.
func (m *Matrix) cell(row, col int64, n int) (s, off int, err error) {
	if m.closed {
		return 0, 0, ErrClosed
	}
	if n != m.lay.CellSize {
		return 0, 0, bufferError("cell", n, int64(m.lay.CellSize))
	}
	if !m.lay.Contains(row, col) {
		return 0, 0, &RangeError{Row: row, Col: col}
	}
	seg, off := m.lay.ByteIndex(row, col)
	s, err = m.acquire(seg)
	if err != nil {
		return 0, 0, err
	}
	return s, off, nil
}

// GetRow copies one full logical row into dst, which must be
// Cols * CellSize bytes.
func (m *Matrix) GetRow(row int64, dst []byte) error {
	return m.rowSpans(row, len(dst), false, func(col0 int64, seg []byte) {
		copy(dst[col0*int64(m.lay.CellSize):], seg)
	})
}

// PutRow stores one full logical row from src, which must be
// Cols * CellSize bytes. Every segment the row crosses becomes dirty.
//
// If paging fails part way, the segments before the failing one already
// hold their part of the row.
func (m *Matrix) PutRow(row int64, src []byte) error {
	return m.rowSpans(row, len(src), true, func(col0 int64, seg []byte) {
		copy(seg, src[col0*int64(m.lay.CellSize):])
	})
}

func (m *Matrix) rowSpans(row int64, n int, dirty bool, fn func(col0 int64, seg []byte)) error {
	if m.closed {
		return ErrClosed
	}
	cs := int64(m.lay.CellSize)
	if want := m.lay.Cols * cs; int64(n) != want {
		return bufferError("row", n, want)
	}
	if !m.lay.Contains(row, 0) {
		return &RangeError{Row: row, Col: 0}
	}

	for j := int64(0); j < m.lay.SegmentsPerRow; j++ {
		col0, cols := m.lay.RowSpan(j)
		seg, off := m.lay.ByteIndex(row, col0)
		s, err := m.acquire(seg)
		if err != nil {
			return err
		}
		if dirty {
			m.table.MarkDirty(s)
		}
		fn(col0, m.table.Buffer(s)[off:off+cols*m.lay.CellSize])
	}
	return nil
}

// acquire makes seg resident and returns its slot.
//
// On a miss the segment is read into the scratch buffer first. Only after
// the read and, if needed, the write-back of the victim have succeeded is
// the slot table changed, so a failed miss leaves the cache as it was.
func (m *Matrix) acquire(seg int64) (int, error) {
	if s, ok := m.table.Lookup(seg); ok {
		m.table.Touch(s)
		m.stats.Hits++
		m.metrics.RecordHit()
		return s, nil
	}

	m.stats.Misses++
	m.metrics.RecordMiss()

	if err := m.pageIn(seg, m.table.Scratch()); err != nil {
		return residency.None, err
	}

	s, evicts := m.table.Candidate()
	if evicts {
		victim := m.table.Segment(s)
		dirty := m.table.Dirty(s)
		if dirty {
			if err := m.pageOut(victim, m.table.Buffer(s)); err != nil {
				return residency.None, err
			}
			m.stats.DirtyEvictions++
		}
		m.stats.Evictions++
		m.metrics.RecordEviction(dirty)
		m.logger.LogEviction(victim, seg, dirty)
	}

	m.table.Install(s, seg)
	return s, nil
}

func (m *Matrix) pageIn(seg int64, buf []byte) error {
	start := time.Now()
	err := m.pager.PageIn(seg, buf)
	m.metrics.RecordPageIn(len(buf), time.Since(start), err)
	if err != nil {
		m.logger.WithSegment(seg).LogIOError(string(pager.OpPageIn), err)
		return translateError(err)
	}
	m.stats.PageIns++
	return nil
}

func (m *Matrix) pageOut(seg int64, buf []byte) error {
	start := time.Now()
	err := m.pager.PageOut(seg, buf)
	m.metrics.RecordPageOut(len(buf), time.Since(start), err)
	if err != nil {
		m.logger.WithSegment(seg).LogIOError(string(pager.OpPageOut), err)
		return translateError(err)
	}
	m.stats.PageOuts++
	return nil
}

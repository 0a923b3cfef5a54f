package segcache

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Flush writes every dirty resident segment back to the file, in ascending
// segment order, and clears the dirty bits. Residency does not change.
// A second Flush without intervening Puts performs no I/O.
func (m *Matrix) Flush() error {
	if m.closed {
		return ErrClosed
	}
	return m.flush()
}

func (m *Matrix) flush() error {
	dirty := roaring64.New()
	m.table.Each(func(_ int, seg int64, d bool) {
		if d {
			dirty.Add(uint64(seg))
		}
	})
	if dirty.IsEmpty() {
		return nil
	}

	start := time.Now()
	written := 0
	err := m.writeBack(dirty, &written)
	if err == nil {
		if f, ok := m.file.(syncer); ok {
			if serr := f.Sync(); serr != nil {
				err = newIOError("sync", -1, 0, serr)
			}
		}
	}

	m.stats.Flushes++
	m.metrics.RecordFlush(written, time.Since(start), err)
	m.logger.LogFlush(written, time.Since(start), err)
	return err
}

func (m *Matrix) writeBack(dirty *roaring64.Bitmap, written *int) error {
	it := dirty.Iterator()
	for it.HasNext() {
		seg := int64(it.Next())
		s, _ := m.table.Lookup(seg)
		if err := m.pageOut(seg, m.table.Buffer(s)); err != nil {
			return err
		}
		m.table.MarkClean(s)
		*written++
	}
	return nil
}

// Close flushes dirty segments and releases the slot buffers. Files opened
// by Create, Open or CreateTemp are closed; CreateTemp files are removed.
//
// The matrix is closed even when the flush fails; the error is returned.
// Any call after Close, including a second Close, returns ErrClosed.
func (m *Matrix) Close() error {
	if m.closed {
		return ErrClosed
	}

	firstErr := m.flush()
	m.closed = true

	stats := m.Stats()
	m.table.Release()
	m.resources.ReleaseMemory(m.reserved)
	m.reserved = 0

	if m.owned != nil {
		if err := m.owned.Close(); err != nil && firstErr == nil {
			firstErr = newIOError("close", -1, 0, err)
		}
		m.owned = nil
	}
	if m.tempPath != "" {
		if err := m.fsys.Remove(m.tempPath); err != nil && firstErr == nil {
			firstErr = newIOError("remove", -1, 0, err)
		}
		m.tempPath = ""
	}

	m.logger.LogClose(stats, firstErr)
	return firstErr
}

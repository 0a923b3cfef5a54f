package segcache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/segcache/internal/format"
	"github.com/hupe1980/segcache/internal/layout"
	"github.com/hupe1980/segcache/internal/mmap"
)

// Reader serves cells straight from a read-only mapping of a segment file.
// It has no slot table and sees only what has been flushed to the file.
// A Reader is safe for concurrent use until Close.
type Reader struct {
	m   *mmap.Mapping
	lay *layout.Layout
	geo Geometry
}

// OpenReader maps the formatted file at path. The geometry is taken from
// its header.
func OpenReader(path string) (*Reader, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, newIOError("map", -1, 0, err)
	}

	h, err := format.Decode(m.Bytes())
	if err != nil {
		m.Close()
		return nil, newIOError("read header", -1, 0, err)
	}
	lay, err := layout.New(h.Params(), format.HeaderSize)
	if err != nil {
		m.Close()
		return nil, translateError(err)
	}
	if m.Size() < lay.FileSize() {
		m.Close()
		return nil, newIOError("map", -1, 0, fmt.Errorf("%w: file is %d bytes, geometry needs %d", format.ErrTruncated, m.Size(), lay.FileSize()))
	}

	_ = m.Advise(mmap.AccessRandom)
	return &Reader{m: m, lay: lay, geo: geometryFromHeader(h)}, nil
}

// Geometry returns the geometry stored in the file header. Slots is 0.
func (r *Reader) Geometry() Geometry { return r.geo }

// CellSize returns the size of one cell in bytes.
func (r *Reader) CellSize() int { return r.lay.CellSize }

// NumSegments returns the number of segments in the tiling grid.
func (r *Reader) NumSegments() int64 { return r.lay.NumSegments }

// SegmentBytes returns the size of one segment in bytes.
func (r *Reader) SegmentBytes() int { return r.lay.SegmentBytes }

// Get copies the cell at (row, col) into dst.
func (r *Reader) Get(row, col int64, dst []byte) error {
	if len(dst) != r.lay.CellSize {
		return bufferError("cell", len(dst), int64(r.lay.CellSize))
	}
	if !r.lay.Contains(row, col) {
		return &RangeError{Row: row, Col: col}
	}
	seg, off := r.lay.ByteIndex(row, col)
	pos := r.lay.Offset(seg, off)
	if _, err := r.m.ReadAt(dst, pos); err != nil {
		if errors.Is(err, mmap.ErrClosed) {
			return ErrClosed
		}
		return newIOError("read", seg, pos, err)
	}
	return nil
}

// GetRow copies one full logical row into dst.
func (r *Reader) GetRow(row int64, dst []byte) error {
	cs := int64(r.lay.CellSize)
	if want := r.lay.Cols * cs; int64(len(dst)) != want {
		return bufferError("row", len(dst), want)
	}
	if !r.lay.Contains(row, 0) {
		return &RangeError{Row: row, Col: 0}
	}
	data := r.m.Bytes()
	if data == nil {
		return ErrClosed
	}
	for j := int64(0); j < r.lay.SegmentsPerRow; j++ {
		col0, cols := r.lay.RowSpan(j)
		seg, off := r.lay.ByteIndex(row, col0)
		start := r.lay.Offset(seg, off)
		copy(dst[col0*cs:], data[start:start+int64(cols)*cs])
	}
	return nil
}

// Segment returns the raw bytes of segment seg without copying. The slice
// is valid until Close.
func (r *Reader) Segment(seg int64) ([]byte, error) {
	if seg < 0 || seg >= r.lay.NumSegments {
		return nil, fmt.Errorf("%w: segment %d of %d", ErrOutOfRange, seg, r.lay.NumSegments)
	}
	region, err := r.m.Region(r.lay.Offset(seg, 0), r.lay.SegmentBytes)
	if err != nil {
		if err == mmap.ErrClosed {
			return nil, ErrClosed
		}
		return nil, err
	}
	return region.Bytes(), nil
}

// Close unmaps the file. Further calls return ErrClosed.
func (r *Reader) Close() error {
	if r.m.Bytes() == nil {
		return ErrClosed
	}
	if err := r.m.Close(); err != nil {
		return newIOError("unmap", -1, 0, err)
	}
	return nil
}

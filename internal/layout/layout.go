package layout

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// FlatRow selects flat addressing over columns only. It is valid only for
// layouts with a single logical row.
const FlatRow int64 = -1

// MaxSegmentBytes bounds the size of one segment buffer.
const MaxSegmentBytes = math.MaxInt32

// ErrInvalid is wrapped by every geometry validation failure.
var ErrInvalid = errors.New("layout: invalid geometry")

// Error describes a rejected geometry parameter.
type Error struct {
	Field  string
	Value  int64
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("layout: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Strategy selects the arithmetic used by a translator.
type Strategy uint8

const (
	// Slow uses division and multiplication and works for any geometry.
	Slow Strategy = iota
	// Fast uses shifts and requires power-of-two quantities.
	Fast
)

func (s Strategy) String() string {
	switch s {
	case Fast:
		return "fast"
	case Slow:
		return "slow"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Params are the caller supplied dimensions of a segmented matrix.
type Params struct {
	Rows     int64
	Cols     int64
	CellSize int
	SegRows  int
	SegCols  int
}

// Layout is the validated tiling of a matrix into segments.
// It is immutable after New.
type Layout struct {
	Rows     int64
	Cols     int64
	CellSize int
	SegRows  int
	SegCols  int

	// SegmentBytes is SegRows * SegCols * CellSize.
	SegmentBytes int
	// SegmentsPerRow is the number of segments spanning one tile row.
	SegmentsPerRow int64
	// TileRows is the number of tile rows in the grid.
	TileRows int64
	// NumSegments is SegmentsPerRow * TileRows.
	NumSegments int64
	// SpillCols is the width of the rightmost partial tile column, 0 if
	// Cols is a multiple of SegCols.
	SpillCols int
	// HeaderSize is the byte offset at which segment data begins.
	HeaderSize int64

	addr     Strategy
	rowBits  uint
	colBits  uint
	seek     Strategy
	sizeBits uint
}

// New validates p and derives the tiling. Translator strategies are chosen
// independently: the address translator is fast when both segment
// dimensions are powers of two, the seek translator when SegmentBytes is.
func New(p Params, headerSize int64) (*Layout, error) {
	switch {
	case p.Rows <= 0:
		return nil, &Error{Field: "rows", Value: p.Rows, Reason: "must be positive"}
	case p.Cols <= 0:
		return nil, &Error{Field: "cols", Value: p.Cols, Reason: "must be positive"}
	case p.CellSize <= 0:
		return nil, &Error{Field: "cell size", Value: int64(p.CellSize), Reason: "must be positive"}
	case p.SegRows <= 0:
		return nil, &Error{Field: "segment rows", Value: int64(p.SegRows), Reason: "must be positive"}
	case p.SegCols <= 0:
		return nil, &Error{Field: "segment cols", Value: int64(p.SegCols), Reason: "must be positive"}
	case headerSize < 0:
		return nil, &Error{Field: "header size", Value: headerSize, Reason: "must not be negative"}
	}

	cells, ok := mul64(int64(p.SegRows), int64(p.SegCols))
	if !ok {
		return nil, &Error{Field: "segment cols", Value: int64(p.SegCols), Reason: "segment cell count overflows"}
	}
	segBytes, ok := mul64(cells, int64(p.CellSize))
	if !ok || segBytes > MaxSegmentBytes {
		return nil, &Error{Field: "cell size", Value: int64(p.CellSize), Reason: fmt.Sprintf("segment exceeds %d bytes", MaxSegmentBytes)}
	}

	spr := ceilDiv(p.Cols, int64(p.SegCols))
	tileRows := ceilDiv(p.Rows, int64(p.SegRows))
	nsegs, ok := mul64(spr, tileRows)
	if !ok {
		return nil, &Error{Field: "rows", Value: p.Rows, Reason: "segment count overflows"}
	}
	data, ok := mul64(nsegs, segBytes)
	if !ok || data > math.MaxInt64-headerSize {
		return nil, &Error{Field: "rows", Value: p.Rows, Reason: "file size overflows"}
	}

	l := &Layout{
		Rows:           p.Rows,
		Cols:           p.Cols,
		CellSize:       p.CellSize,
		SegRows:        p.SegRows,
		SegCols:        p.SegCols,
		SegmentBytes:   int(segBytes),
		SegmentsPerRow: spr,
		TileRows:       tileRows,
		NumSegments:    nsegs,
		SpillCols:      int(p.Cols % int64(p.SegCols)),
		HeaderSize:     headerSize,
	}

	if isPow2(uint64(p.SegRows)) && isPow2(uint64(p.SegCols)) {
		l.addr = Fast
		l.rowBits = uint(bits.TrailingZeros64(uint64(p.SegRows)))
		l.colBits = uint(bits.TrailingZeros64(uint64(p.SegCols)))
	}
	if isPow2(uint64(segBytes)) {
		l.seek = Fast
		l.sizeBits = uint(bits.TrailingZeros64(uint64(segBytes)))
	}

	return l, nil
}

// AddressStrategy reports the strategy used by Address.
func (l *Layout) AddressStrategy() Strategy { return l.addr }

// SeekStrategy reports the strategy used by Offset.
func (l *Layout) SeekStrategy() Strategy { return l.seek }

// WithStrategies returns a copy of l using the given strategies. Requesting
// Fast where the geometry does not allow it is an error.
func (l *Layout) WithStrategies(addr, seek Strategy) (*Layout, error) {
	c := *l
	if addr == Fast && !(isPow2(uint64(l.SegRows)) && isPow2(uint64(l.SegCols))) {
		return nil, &Error{Field: "segment rows", Value: int64(l.SegRows), Reason: "fast addressing needs power-of-two segment dimensions"}
	}
	if seek == Fast && !isPow2(uint64(l.SegmentBytes)) {
		return nil, &Error{Field: "segment bytes", Value: int64(l.SegmentBytes), Reason: "fast seeking needs a power-of-two segment size"}
	}
	c.addr = addr
	c.seek = seek
	if addr == Fast {
		c.rowBits = uint(bits.TrailingZeros64(uint64(l.SegRows)))
		c.colBits = uint(bits.TrailingZeros64(uint64(l.SegCols)))
	}
	if seek == Fast {
		c.sizeBits = uint(bits.TrailingZeros64(uint64(l.SegmentBytes)))
	}
	return &c, nil
}

// Contains reports whether (row, col) addresses a cell of the matrix.
// row may be FlatRow on single-row layouts.
func (l *Layout) Contains(row, col int64) bool {
	if col < 0 || col >= l.Cols {
		return false
	}
	if row == FlatRow {
		return l.Rows == 1
	}
	return row >= 0 && row < l.Rows
}

// FileSize is the size of a fully formatted backing file.
func (l *Layout) FileSize() int64 {
	return l.HeaderSize + l.NumSegments*int64(l.SegmentBytes)
}

// RowSpan returns the first column and the number of valid columns covered
// by the j-th segment column of any row.
func (l *Layout) RowSpan(j int64) (col0 int64, n int) {
	col0 = j * int64(l.SegCols)
	n = l.SegCols
	if j == l.SegmentsPerRow-1 && l.SpillCols != 0 {
		n = l.SpillCols
	}
	return col0, n
}

func isPow2(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// ceilDiv assumes a > 0 and b > 0.
func ceilDiv(a, b int64) int64 {
	return (a-1)/b + 1
}

func mul64(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

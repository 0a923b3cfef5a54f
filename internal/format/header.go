package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/segcache/internal/conv"
	"github.com/hupe1980/segcache/internal/hash"
	"github.com/hupe1980/segcache/internal/layout"
)

const (
	// HeaderSize is the fixed size of the file header. Segment data starts
	// right after it.
	HeaderSize = 64

	// Magic identifies a segment file.
	Magic = "SEGC"

	// Version is the current on-disk format version.
	Version uint16 = 1

	checksumOffset = 36
)

var (
	// ErrCorrupt is returned when the header magic, version or checksum is wrong.
	ErrCorrupt = errors.New("format: corrupt header")

	// ErrTruncated is returned when the file is shorter than its header declares.
	ErrTruncated = errors.New("format: truncated file")

	// ErrMismatch is wrapped by MismatchError.
	ErrMismatch = errors.New("format: geometry mismatch")
)

// MismatchError reports a header field that differs from the requested geometry.
type MismatchError struct {
	Field string
	Want  int64
	Got   int64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("format: %s mismatch: requested %d, file has %d", e.Field, e.Want, e.Got)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Header is the geometry persisted at the start of a segment file.
type Header struct {
	Rows     int64
	Cols     int64
	SegRows  uint32
	SegCols  uint32
	CellSize uint32
}

// HeaderFor builds the header describing l. Segment dimensions fit in
// uint32 because a layout never exceeds layout.MaxSegmentBytes.
func HeaderFor(l *layout.Layout) Header {
	return Header{
		Rows:     l.Rows,
		Cols:     l.Cols,
		SegRows:  uint32(l.SegRows),
		SegCols:  uint32(l.SegCols),
		CellSize: uint32(l.CellSize),
	}
}

// Params returns the layout parameters stored in h.
func (h Header) Params() layout.Params {
	return layout.Params{
		Rows:     h.Rows,
		Cols:     h.Cols,
		CellSize: int(h.CellSize),
		SegRows:  int(h.SegRows),
		SegCols:  int(h.SegCols),
	}
}

// AppendBinary appends the HeaderSize byte encoding of h to b.
func (h Header) AppendBinary(b []byte) []byte {
	start := len(b)
	b = append(b, Magic...)
	b = binary.LittleEndian.AppendUint16(b, Version)
	b = binary.LittleEndian.AppendUint16(b, 0)
	b = binary.LittleEndian.AppendUint64(b, uint64(h.Rows))
	b = binary.LittleEndian.AppendUint64(b, uint64(h.Cols))
	b = binary.LittleEndian.AppendUint32(b, h.SegRows)
	b = binary.LittleEndian.AppendUint32(b, h.SegCols)
	b = binary.LittleEndian.AppendUint32(b, h.CellSize)
	b = hash.AppendCRC32C(b, b[start:start+checksumOffset])
	return append(b, make([]byte, HeaderSize-(len(b)-start))...)
}

// Decode parses a header from the first HeaderSize bytes of b.
func Decode(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes", ErrTruncated, len(b))
	}
	if string(b[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, b[0:4])
	}
	if v := binary.LittleEndian.Uint16(b[4:6]); v != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	if err := hash.VerifyCRC32C(b[:checksumOffset], binary.LittleEndian.Uint32(b[checksumOffset:])); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	rows, err := conv.Uint64ToInt64(binary.LittleEndian.Uint64(b[8:16]))
	if err != nil {
		return Header{}, fmt.Errorf("%w: rows: %w", ErrCorrupt, err)
	}
	cols, err := conv.Uint64ToInt64(binary.LittleEndian.Uint64(b[16:24]))
	if err != nil {
		return Header{}, fmt.Errorf("%w: cols: %w", ErrCorrupt, err)
	}
	h := Header{
		Rows:     rows,
		Cols:     cols,
		SegRows:  binary.LittleEndian.Uint32(b[24:28]),
		SegCols:  binary.LittleEndian.Uint32(b[28:32]),
		CellSize: binary.LittleEndian.Uint32(b[32:36]),
	}
	for _, f := range []uint32{h.SegRows, h.SegCols, h.CellSize} {
		if _, err := conv.Uint32ToInt(f); err != nil {
			return Header{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	return h, nil
}

// ReadHeader reads and decodes the header at offset 0 of r.
func ReadHeader(r io.ReaderAt) (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := r.ReadAt(buf, 0)
	if n < HeaderSize {
		if err == nil || errors.Is(err, io.EOF) {
			return Header{}, fmt.Errorf("%w: header is %d bytes", ErrTruncated, n)
		}
		return Header{}, err
	}
	return Decode(buf)
}

// WriteHeader encodes h at offset 0 of w.
func WriteHeader(w io.WriterAt, h Header) error {
	buf := h.AppendBinary(make([]byte, 0, HeaderSize))
	n, err := w.WriteAt(buf, 0)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("%w: wrote %d of %d header bytes", io.ErrShortWrite, n, len(buf))
	}
	return nil
}

// Compare checks that h describes the same geometry as want.
func (h Header) Compare(want Header) error {
	switch {
	case h.Rows != want.Rows:
		return &MismatchError{Field: "rows", Want: want.Rows, Got: h.Rows}
	case h.Cols != want.Cols:
		return &MismatchError{Field: "cols", Want: want.Cols, Got: h.Cols}
	case h.CellSize != want.CellSize:
		return &MismatchError{Field: "cell size", Want: int64(want.CellSize), Got: int64(h.CellSize)}
	case h.SegRows != want.SegRows:
		return &MismatchError{Field: "segment rows", Want: int64(want.SegRows), Got: int64(h.SegRows)}
	case h.SegCols != want.SegCols:
		return &MismatchError{Field: "segment cols", Want: int64(want.SegCols), Got: int64(h.SegCols)}
	}
	return nil
}

package format

import (
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/segcache/internal/layout"
)

// Fill selects how the segment area of a new file is materialized.
type Fill uint8

const (
	// FillSparse sizes the file without writing data. Unwritten bytes read as zero.
	FillSparse Fill = iota
	// FillZero writes zeroed segments explicitly.
	FillZero
	// FillPreallocate reserves disk blocks where the platform supports it
	// and falls back to FillSparse otherwise.
	FillPreallocate
)

func (f Fill) String() string {
	switch f {
	case FillSparse:
		return "sparse"
	case FillZero:
		return "zero"
	case FillPreallocate:
		return "preallocate"
	default:
		return fmt.Sprintf("Fill(%d)", uint8(f))
	}
}

// zeroChunk bounds the buffer used by FillZero.
const zeroChunk = 1 << 20

// File is the subset of file operations needed to format and verify.
type File interface {
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
	Stat() (os.FileInfo, error)
}

// Format discards any previous content of f, writes the header for l and
// sizes the file to l.FileSize().
func Format(f File, l *layout.Layout, fill Fill) error {
	if l.HeaderSize != HeaderSize {
		return fmt.Errorf("format: layout header size %d, want %d", l.HeaderSize, HeaderSize)
	}
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("format: truncate: %w", err)
	}
	if err := WriteHeader(f, HeaderFor(l)); err != nil {
		return fmt.Errorf("format: write header: %w", err)
	}

	size := l.FileSize()
	switch fill {
	case FillZero:
		if err := writeZeros(f, HeaderSize, size); err != nil {
			return fmt.Errorf("format: zero fill: %w", err)
		}
	case FillPreallocate:
		if err := preallocate(f, size); err != nil {
			return fmt.Errorf("format: preallocate: %w", err)
		}
	default:
		if err := f.Truncate(size); err != nil {
			return fmt.Errorf("format: size: %w", err)
		}
	}
	return nil
}

func writeZeros(w io.WriterAt, from, to int64) error {
	buf := make([]byte, min(int64(zeroChunk), to-from))
	for off := from; off < to; {
		chunk := buf[:min(int64(len(buf)), to-off)]
		n, err := w.WriteAt(chunk, off)
		if err != nil {
			return err
		}
		if n != len(chunk) {
			return io.ErrShortWrite
		}
		off += int64(n)
	}
	return nil
}

// Verify checks that f holds a valid header matching l and is large enough
// to contain every segment.
func Verify(f File, l *layout.Layout) error {
	h, err := ReadHeader(f)
	if err != nil {
		return err
	}
	if err := h.Compare(HeaderFor(l)); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("format: stat: %w", err)
	}
	if info.Size() < l.FileSize() {
		return fmt.Errorf("%w: %d bytes, need %d", ErrTruncated, info.Size(), l.FileSize())
	}
	return nil
}

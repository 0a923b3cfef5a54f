package segcache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/segcache/internal/format"
	"github.com/hupe1980/segcache/internal/layout"
	"github.com/hupe1980/segcache/internal/pager"
	"github.com/hupe1980/segcache/resource"
)

var (
	// ErrClosed is returned by every operation on a closed Matrix or Reader.
	ErrClosed = errors.New("segcache: use after close")

	// ErrOutOfMemory is returned by open when the slot buffers cannot be reserved.
	ErrOutOfMemory = errors.New("segcache: out of memory")

	// ErrCorruptHeader is wrapped by IOError when the file header has a wrong
	// magic, an unsupported version or a bad checksum.
	ErrCorruptHeader = errors.New("segcache: corrupt header")

	// ErrTruncated is wrapped by IOError when the file is shorter than its geometry.
	ErrTruncated = errors.New("segcache: truncated file")

	// ErrShortRead is wrapped by IOError when a page-in transferred fewer bytes than a segment.
	ErrShortRead = errors.New("segcache: short read")

	// ErrShortWrite is wrapped by IOError when a page-out transferred fewer bytes than a segment.
	ErrShortWrite = errors.New("segcache: short write")

	// ErrOutOfRange is wrapped by RangeError.
	ErrOutOfRange = errors.New("segcache: cell out of range")

	// ErrBufferSize is returned when a caller buffer does not match the cell or row size.
	ErrBufferSize = errors.New("segcache: buffer size mismatch")
)

// ConfigError reports invalid geometry, either supplied by the caller or
// found in the header of an existing file that does not match the request.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Field  string
	Value  int64
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("segcache: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// IOError reports a failure of the backing file. Segment is -1 when the
// failure is not tied to one segment (header, sync, close).
//
// errors.Is matches both the classified sentinel (ErrShortRead,
// ErrCorruptHeader, ...) and the underlying error.
type IOError struct {
	Op      string
	Segment int64
	Offset  int64
	Err     error
	kind    error
}

func (e *IOError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("segcache: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("segcache: %s segment %d at offset %d: %v", e.Op, e.Segment, e.Offset, e.Err)
}

func (e *IOError) Unwrap() []error {
	if e.kind == nil {
		return []error{e.Err}
	}
	return []error{e.kind, e.Err}
}

// RangeError reports a cell coordinate outside the matrix.
type RangeError struct {
	Row int64
	Col int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("segcache: cell (%d, %d) out of range", e.Row, e.Col)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

func newIOError(op string, seg, off int64, err error) *IOError {
	e := &IOError{Op: op, Segment: seg, Offset: off, Err: err}
	switch {
	case errors.Is(err, format.ErrCorrupt):
		e.kind = ErrCorruptHeader
	case errors.Is(err, format.ErrTruncated):
		e.kind = ErrTruncated
	case errors.Is(err, pager.ErrShortRead):
		e.kind = ErrShortRead
	case errors.Is(err, pager.ErrShortWrite):
		e.kind = ErrShortWrite
	}
	return e
}

func bufferError(what string, got int, want int64) error {
	return fmt.Errorf("%w: %s buffer is %d bytes, want %d", ErrBufferSize, what, got, want)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var le *layout.Error
	if errors.As(err, &le) {
		return &ConfigError{Field: le.Field, Value: le.Value, Reason: le.Reason, cause: err}
	}
	var me *format.MismatchError
	if errors.As(err, &me) {
		return &ConfigError{
			Field:  me.Field,
			Value:  me.Want,
			Reason: fmt.Sprintf("existing file has %d", me.Got),
			cause:  err,
		}
	}

	var pe *pager.Error
	if errors.As(err, &pe) {
		return newIOError(string(pe.Op), pe.Segment, pe.Offset, pe.Err)
	}

	if errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	return err
}

// Package pager moves whole segments between slot buffers and the backing file.
package pager

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/segcache/internal/layout"
	"github.com/hupe1980/segcache/resource"
)

var (
	// ErrShortRead is returned when fewer than SegmentBytes bytes were read.
	ErrShortRead = errors.New("pager: short read")
	// ErrShortWrite is returned when fewer than SegmentBytes bytes were written.
	ErrShortWrite = errors.New("pager: short write")
)

// Op names a pager operation in errors.
type Op string

const (
	OpPageIn  Op = "pagein"
	OpPageOut Op = "pageout"
)

// Error describes a failed page transfer.
type Error struct {
	Op      Op
	Segment int64
	Offset  int64
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pager: %s segment %d at offset %d: %v", e.Op, e.Segment, e.Offset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// File is the positional I/O a Pager needs.
type File interface {
	io.ReaderAt
	io.WriterAt
}

// Pager performs synchronous page-in and page-out of exactly one segment.
type Pager struct {
	r   io.ReaderAt
	w   io.WriterAt
	lay *layout.Layout
}

// New returns a Pager over f. When rc is non-nil every transfer is
// accounted against it and throttled by its IO limit.
func New(f File, lay *layout.Layout, rc *resource.Controller) *Pager {
	p := &Pager{r: f, w: f, lay: lay}
	if rc != nil {
		ctx := context.Background()
		p.r = resource.NewRateLimitedReaderAt(ctx, f, rc)
		p.w = resource.NewRateLimitedWriterAt(ctx, f, rc)
	}
	return p
}

// PageIn reads segment seg into buf, which must be SegmentBytes long.
func (p *Pager) PageIn(seg int64, buf []byte) error {
	off := p.lay.Offset(seg, 0)
	if len(buf) != p.lay.SegmentBytes {
		return &Error{Op: OpPageIn, Segment: seg, Offset: off, Err: fmt.Errorf("buffer is %d bytes, segment is %d", len(buf), p.lay.SegmentBytes)}
	}
	n, err := p.r.ReadAt(buf, off)
	if n == len(buf) {
		// io.ReaderAt may report io.EOF alongside a full read at the end of the file.
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %d of %d bytes", ErrShortRead, n, len(buf))
	}
	return &Error{Op: OpPageIn, Segment: seg, Offset: off, Err: err}
}

// PageOut writes buf, which must be SegmentBytes long, as segment seg.
func (p *Pager) PageOut(seg int64, buf []byte) error {
	off := p.lay.Offset(seg, 0)
	if len(buf) != p.lay.SegmentBytes {
		return &Error{Op: OpPageOut, Segment: seg, Offset: off, Err: fmt.Errorf("buffer is %d bytes, segment is %d", len(buf), p.lay.SegmentBytes)}
	}
	n, err := p.w.WriteAt(buf, off)
	if err != nil {
		return &Error{Op: OpPageOut, Segment: seg, Offset: off, Err: err}
	}
	if n != len(buf) {
		return &Error{Op: OpPageOut, Segment: seg, Offset: off, Err: fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(buf))}
	}
	return nil
}

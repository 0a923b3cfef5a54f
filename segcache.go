package segcache

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hupe1980/segcache/internal/format"
	"github.com/hupe1980/segcache/internal/fs"
	"github.com/hupe1980/segcache/internal/layout"
	"github.com/hupe1980/segcache/internal/pager"
	"github.com/hupe1980/segcache/internal/residency"
	"github.com/hupe1980/segcache/resource"
)

// FlatRow passed as row selects flat addressing over columns only.
// It is accepted only by matrices with a single row.
const FlatRow = layout.FlatRow

// Mode selects whether open formats a new file or attaches to an existing one.
type Mode uint8

const (
	// ModeCreate discards any previous content and formats the file.
	ModeCreate Mode = iota
	// ModeExisting validates the header of an already formatted file.
	ModeExisting
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeExisting:
		return "existing"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Geometry describes the logical matrix, its tiling and the number of
// resident slots.
type Geometry struct {
	Rows     int64
	Cols     int64
	CellSize int
	SegRows  int
	SegCols  int
	// Slots is the number of segments held in memory at once. It is
	// clamped to the number of segments in the tiling grid.
	Slots int
}

func (g Geometry) params() layout.Params {
	return layout.Params{
		Rows:     g.Rows,
		Cols:     g.Cols,
		CellSize: g.CellSize,
		SegRows:  g.SegRows,
		SegCols:  g.SegCols,
	}
}

// File is the backing store of a Matrix. *os.File satisfies it.
//
// If the file also implements Sync() error, Flush syncs it after writing
// dirty segments.
type File interface {
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
	Stat() (os.FileInfo, error)
}

type syncer interface {
	Sync() error
}

// Matrix is a file-backed 2-D matrix of fixed-size cells, paged through a
// bounded set of resident segments with least recently used replacement.
//
// A Matrix is owned by one goroutine at a time. Use Synchronized to share it.
type Matrix struct {
	lay   *layout.Layout
	geo   Geometry
	file  File
	table *residency.Table
	pager *pager.Pager

	// owned is closed by Close; it is nil when the caller passed the file to New.
	owned    fs.File
	fsys     fs.FileSystem
	tempPath string

	resources *resource.Controller
	reserved  int64

	logger  *Logger
	metrics MetricsCollector
	stats   Stats
	closed  bool
}

// New opens a Matrix on f. In ModeCreate the file is truncated and
// formatted; in ModeExisting its header must describe the same geometry.
// The caller keeps ownership of f: Close flushes but does not close it.
func New(f File, g Geometry, mode Mode, optFns ...Option) (*Matrix, error) {
	o := applyOptions(optFns)
	return open(f, g, mode, o)
}

// Create creates (or truncates) the file at path and formats it for g.
func Create(path string, g Geometry, optFns ...Option) (*Matrix, error) {
	o := applyOptions(optFns)
	o.logger = o.logger.WithPath(path)
	f, err := o.fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, o.fileMode)
	if err != nil {
		return nil, newIOError("create", -1, 0, err)
	}
	m, err := open(f, g, ModeCreate, o)
	if err != nil {
		f.Close()
		return nil, err
	}
	m.owned = f
	m.fsys = o.fsys
	return m, nil
}

// Open opens the formatted file at path. g must match its header.
func Open(path string, g Geometry, optFns ...Option) (*Matrix, error) {
	o := applyOptions(optFns)
	o.logger = o.logger.WithPath(path)
	f, err := o.fsys.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, newIOError("open", -1, 0, err)
	}
	m, err := open(f, g, ModeExisting, o)
	if err != nil {
		f.Close()
		return nil, err
	}
	m.owned = f
	m.fsys = o.fsys
	return m, nil
}

// CreateTemp formats a new scratch file in dir (os.TempDir if empty).
// The file is removed when the Matrix is closed.
func CreateTemp(dir string, g Geometry, optFns ...Option) (*Matrix, error) {
	o := applyOptions(optFns)
	f, err := o.fsys.CreateTemp(dir, "segcache-*.seg")
	if err != nil {
		return nil, newIOError("create", -1, 0, err)
	}
	o.logger = o.logger.WithPath(f.Name())
	m, err := open(f, g, ModeCreate, o)
	if err != nil {
		f.Close()
		_ = o.fsys.Remove(f.Name())
		return nil, err
	}
	m.owned = f
	m.fsys = o.fsys
	m.tempPath = f.Name()
	return m, nil
}

// Inspect reads the geometry stored in the header of the file at path.
// Slots is not persisted and is returned as 0.
func Inspect(path string) (Geometry, error) {
	f, err := fs.Default.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return Geometry{}, newIOError("open", -1, 0, err)
	}
	defer f.Close()

	h, err := format.ReadHeader(f)
	if err != nil {
		return Geometry{}, newIOError("read header", -1, 0, err)
	}
	return geometryFromHeader(h), nil
}

func geometryFromHeader(h format.Header) Geometry {
	p := h.Params()
	return Geometry{
		Rows:     p.Rows,
		Cols:     p.Cols,
		CellSize: p.CellSize,
		SegRows:  p.SegRows,
		SegCols:  p.SegCols,
	}
}

func open(f File, g Geometry, mode Mode, o options) (m *Matrix, err error) {
	defer func() {
		o.logger.LogOpen(mode, g, numSegments(m), err)
	}()

	if mode != ModeCreate && mode != ModeExisting {
		return nil, &ConfigError{Field: "mode", Value: int64(mode), Reason: "unknown mode"}
	}

	lay, err := layout.New(g.params(), format.HeaderSize)
	if err != nil {
		return nil, translateError(err)
	}

	if g.Slots <= 0 {
		return nil, &ConfigError{Field: "slots", Value: int64(g.Slots), Reason: "must be positive"}
	}
	if int64(g.Slots) > math.MaxInt32 {
		return nil, &ConfigError{Field: "slots", Value: int64(g.Slots), Reason: "exceeds 2^31-1"}
	}
	if int64(g.Slots) > lay.NumSegments {
		o.logger.Debug("slot count clamped to segment count",
			"requested", g.Slots,
			"segments", lay.NumSegments,
		)
		g.Slots = int(lay.NumSegments)
	}

	// One buffer per slot plus the page-in scratch buffer, and the load index.
	buffers := int64(g.Slots) + 1
	index := residency.IndexBytes(g.Slots, lay.NumSegments)
	if buffers > (math.MaxInt-index)/int64(lay.SegmentBytes) {
		return nil, fmt.Errorf("%w: %d buffers of %d bytes", ErrOutOfMemory, buffers, lay.SegmentBytes)
	}
	reserved := buffers*int64(lay.SegmentBytes) + index
	if avail := resource.SystemMemory(); reserved > avail {
		return nil, fmt.Errorf("%w: %d bytes requested, %d available", ErrOutOfMemory, reserved, avail)
	}
	if err := o.resources.AcquireMemory(reserved); err != nil {
		return nil, translateError(err)
	}
	defer func() {
		if err != nil {
			o.resources.ReleaseMemory(reserved)
		}
	}()

	switch mode {
	case ModeCreate:
		if err := format.Format(f, lay, o.fill); err != nil {
			return nil, newIOError("format", -1, 0, err)
		}
	case ModeExisting:
		if err := format.Verify(f, lay); err != nil {
			if errors.Is(err, format.ErrMismatch) {
				return nil, translateError(err)
			}
			return nil, newIOError("verify", -1, 0, err)
		}
	}

	table, err := residency.New(g.Slots, lay.NumSegments, lay.SegmentBytes)
	if err != nil {
		return nil, err
	}

	return &Matrix{
		lay:       lay,
		geo:       g,
		file:      f,
		table:     table,
		pager:     pager.New(f, lay, o.resources),
		resources: o.resources,
		reserved:  reserved,
		logger:    o.logger,
		metrics:   o.metricsCollector,
	}, nil
}

func numSegments(m *Matrix) int64 {
	if m == nil {
		return 0
	}
	return m.lay.NumSegments
}

// Geometry returns the geometry the matrix was opened with, with Slots
// after clamping.
func (m *Matrix) Geometry() Geometry { return m.geo }

// CellSize returns the size of one cell in bytes.
func (m *Matrix) CellSize() int { return m.lay.CellSize }

// NumSegments returns the number of segments in the tiling grid.
func (m *Matrix) NumSegments() int64 { return m.lay.NumSegments }

// SegmentBytes returns the size of one segment in bytes.
func (m *Matrix) SegmentBytes() int { return m.lay.SegmentBytes }

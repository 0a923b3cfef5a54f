// Package segcache pages large 2-D matrices of fixed-size cells through a
// small in-memory working set.
//
// The matrix lives in a backing file, tiled into rectangular segments of
// SegRows x SegCols cells. Only Slots segments are held in memory at a time;
// accessing a cell whose segment is not resident pages it in, evicting the
// least recently used segment and writing it back first if it was modified.
//
// # Quick Start
//
//	g := segcache.Geometry{
//	    Rows: 10000, Cols: 10000, CellSize: 4,
//	    SegRows: 64, SegCols: 64, Slots: 32,
//	}
//	m, err := segcache.Create("cost.seg", g)
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = segcache.PutValue(m, 120, 7, float32(1.5))
//	v, _ := segcache.GetValue[float32](m, 120, 7)
//
// Open attaches to an existing file; its header must describe the same
// geometry. CreateTemp makes a scratch matrix whose file is removed on Close.
//
// # Durability
//
// Put only modifies the resident segment. Modified segments reach the file
// when they are evicted, on Flush and on Close. Flush writes dirty segments
// in ascending file order and syncs the file.
//
// # File Format
//
// A 64-byte header (magic "SEGC", version, geometry, CRC32-C) is followed by
// the segments in row-major order over the segment grid. Partial tiles at
// the right and bottom edges occupy a full segment.
//
// # Concurrency
//
// A Matrix must be used by one goroutine at a time. Synchronized returns a
// mutex-guarded wrapper. A Reader maps a file read-only and may be shared.
//
// # Errors
//
// Invalid geometry is reported as *ConfigError, file failures as *IOError,
// failure to reserve slot memory as ErrOutOfMemory and any call after Close
// as ErrClosed. After an IOError the matrix stays usable and the slot table
// is unchanged, but the failed cell was neither read nor stored.
package segcache

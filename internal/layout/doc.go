// Package layout tiles a two-dimensional matrix into fixed-size segments.
//
// A Layout answers two questions for the segment cache:
//
//   - Address: which segment holds cell (row, col), and where inside it.
//   - Offset: where in the backing file a segment byte lives.
//
// Each translator has a fast variant using shifts and masks and a slow
// variant using division. New picks the fast variant per translator when
// the relevant quantity is a power of two: both segment dimensions for
// Address, the segment byte size for Offset. Shift amounts are computed
// once in New and stored on the Layout.
//
// Segments are numbered row-major over the tiling grid:
//
//	+-----+-----+-----+
//	|  0  |  1  |  2  |   SegmentsPerRow = 3
//	+-----+-----+-----+
//	|  3  |  4  |  5  |
//	+-----+-----+-----+
//
// Partial tiles on the right and bottom edges still occupy a full segment.
package layout

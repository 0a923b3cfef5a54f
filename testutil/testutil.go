package testutil

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// Cell is a (row, col) position in a matrix.
type Cell struct {
	Row, Col int64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Int63n returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63n(n)
}

// Value returns size pseudo-random bytes.
func (r *RNG) Value(size int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, size)
	r.rand.Read(b)
	return b
}

// UniformCells returns n cells drawn uniformly from a rows x cols matrix.
func (r *RNG) UniformCells(n int, rows, cols int64) []Cell {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cell, n)
	for i := range out {
		out[i] = Cell{Row: r.rand.Int63n(rows), Col: r.rand.Int63n(cols)}
	}
	return out
}

// TileSkewedCells returns n cells whose tiles follow a Zipf distribution
// with exponent s: a few tiles of segRows x segCols take most accesses,
// which is the pattern an LRU cache is built for. Cells inside a tile are
// uniform.
func (r *RNG) TileSkewedCells(n int, rows, cols int64, segRows, segCols int, s float64) []Cell {
	tileRows := (rows + int64(segRows) - 1) / int64(segRows)
	tileCols := (cols + int64(segCols) - 1) / int64(segCols)
	tiles := int(tileRows * tileCols)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Shuffle tile ranks so the hot tiles are not all in the top-left corner.
	rank := r.rand.Perm(tiles)
	cdf := zipfCDF(tiles, s)

	out := make([]Cell, n)
	for i := range out {
		k := sort.SearchFloat64s(cdf, r.rand.Float64()*cdf[len(cdf)-1])
		if k >= tiles {
			k = tiles - 1
		}
		tile := int64(rank[k])
		r0 := (tile / tileCols) * int64(segRows)
		c0 := (tile % tileCols) * int64(segCols)
		out[i] = Cell{
			Row: r0 + r.rand.Int63n(min(int64(segRows), rows-r0)),
			Col: c0 + r.rand.Int63n(min(int64(segCols), cols-c0)),
		}
	}
	return out
}

func zipfCDF(n int, s float64) []float64 {
	cdf := make([]float64, n)
	var sum float64
	for k := range cdf {
		sum += 1.0 / math.Pow(float64(k+1), s)
		cdf[k] = sum
	}
	return cdf
}

// RowScan returns every cell of a rows x cols matrix in row-major order.
func RowScan(rows, cols int64) []Cell {
	out := make([]Cell, 0, rows*cols)
	for row := int64(0); row < rows; row++ {
		for col := int64(0); col < cols; col++ {
			out = append(out, Cell{Row: row, Col: col})
		}
	}
	return out
}

// Oracle is the expected content of a matrix: every written cell, with
// unwritten cells reading as zero.
type Oracle struct {
	cellSize int
	cells    map[Cell][]byte
}

// NewOracle returns an empty oracle for cells of cellSize bytes.
func NewOracle(cellSize int) *Oracle {
	return &Oracle{cellSize: cellSize, cells: make(map[Cell][]byte)}
}

// Put records v as the content of (row, col).
func (o *Oracle) Put(row, col int64, v []byte) {
	if len(v) != o.cellSize {
		panic(fmt.Sprintf("testutil: value of %d bytes, cell size %d", len(v), o.cellSize))
	}
	o.cells[Cell{Row: row, Col: col}] = bytes.Clone(v)
}

// Get returns the expected content of (row, col).
func (o *Oracle) Get(row, col int64) []byte {
	if v, ok := o.cells[Cell{Row: row, Col: col}]; ok {
		return v
	}
	return make([]byte, o.cellSize)
}

// Written returns the written cells in row-major order.
func (o *Oracle) Written() []Cell {
	out := make([]Cell, 0, len(o.cells))
	for c := range o.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

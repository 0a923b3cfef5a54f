// Package testutil provides testing utilities for segcache.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for cell access patterns and an in-memory
// oracle that records what a matrix should contain.
//
// # Access Patterns
//
//	rng := testutil.NewRNG(seed)
//	cells := rng.UniformCells(1000, rows, cols)      // scattered access
//	cells = rng.TileSkewedCells(1000, rows, cols, 8, 8, 1.5) // hot tiles
//	cells = testutil.RowScan(rows, cols)             // sequential sweep
//
// # Oracle
//
//	o := testutil.NewOracle(cellSize)
//	o.Put(r, c, v)
//	want := o.Get(r, c) // zero bytes if never written
package testutil

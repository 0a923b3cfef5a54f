package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput runs fn with os.Stdout redirected and returns what it wrote.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	fnErr := fn()
	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

func resetFlags() {
	quiet = false
	verbose = false
	jsonOut = false
	createRows, createCols = 0, 0
	createCellSize, createSegRows, createSegCols = 4, 64, 64
	createFill = "sparse"
	getType, putType, dumpType = "raw", "raw", "raw"
	dumpFromRow, dumpRows = 0, 0
}

// newTestFile creates a rows x cols matrix of 4-byte cells tiled 2x2.
func newTestFile(t *testing.T, rows, cols int64) string {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	path := filepath.Join(t.TempDir(), "grid.seg")
	createRows, createCols = rows, cols
	createSegRows, createSegCols = 2, 2
	_, err := captureOutput(t, func() error { return runCreate([]string{path}) })
	require.NoError(t, err)
	return path
}

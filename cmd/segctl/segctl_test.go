package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segcache"
)

func TestCreateCommand(t *testing.T) {
	tests := []struct {
		name        string
		fill        string
		cellSize    int
		wantErr     bool
		wantContain string
	}{
		{name: "sparse", fill: "sparse", cellSize: 4, wantContain: "in 6 segments"},
		{name: "zero", fill: "zero", cellSize: 4, wantContain: "5x3 cells of 4 bytes"},
		{name: "preallocate", fill: "preallocate", cellSize: 8, wantContain: "of 8 bytes"},
		{name: "unknown fill", fill: "dense", cellSize: 4, wantErr: true},
		{name: "bad cell size", fill: "sparse", cellSize: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			t.Cleanup(resetFlags)
			createRows, createCols = 5, 3
			createSegRows, createSegCols = 2, 2
			createCellSize = tt.cellSize
			createFill = tt.fill

			path := filepath.Join(t.TempDir(), "m.seg")
			output, err := captureOutput(t, func() error { return runCreate([]string{path}) })
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, output, tt.wantContain)

			g, err := segcache.Inspect(path)
			require.NoError(t, err)
			assert.Equal(t, int64(5), g.Rows)
			assert.Equal(t, tt.cellSize, g.CellSize)
		})
	}
}

func TestInfoCommand(t *testing.T) {
	path := newTestFile(t, 4, 6)

	output, err := captureOutput(t, func() error { return runInfo([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, output, "4 rows x 6 cols")
	assert.Contains(t, output, "Segments: 6 (3 per tile row)")
	assert.Contains(t, output, "Addressing: fast")
	assert.NotContains(t, output, "Warning")

	jsonOut = true
	output, err = captureOutput(t, func() error { return runInfo([]string{path}) })
	require.NoError(t, err)

	var info fileInfo
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, int64(6), info.Segments)
	assert.Equal(t, 16, info.SegmentBytes)
	assert.Equal(t, int64(64+6*16), info.Size)
}

func TestInfoCommand_NotASegmentFile(t *testing.T) {
	resetFlags()
	_, err := captureOutput(t, func() error {
		return runInfo([]string{filepath.Join(t.TempDir(), "missing.seg")})
	})
	require.Error(t, err)
}

func TestPutGetCommands(t *testing.T) {
	path := newTestFile(t, 4, 4)

	tests := []struct {
		typ   string
		row   string
		col   string
		value string
		want  string
	}{
		{typ: "u32", row: "0", col: "0", value: "7", want: "7"},
		{typ: "i32", row: "3", col: "3", value: "-42", want: "-42"},
		{typ: "f32", row: "1", col: "2", value: "1.5", want: "1.5"},
		{typ: "raw", row: "2", col: "1", value: "deadbeef", want: "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			putType, getType = tt.typ, tt.typ

			_, err := captureOutput(t, func() error {
				return runPut([]string{path, tt.row, tt.col, tt.value})
			})
			require.NoError(t, err)

			output, err := captureOutput(t, func() error {
				return runGet([]string{path, tt.row, tt.col})
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(output))
		})
	}
}

func TestGetCommand_Errors(t *testing.T) {
	path := newTestFile(t, 4, 4)

	tests := []struct {
		name string
		typ  string
		args []string
	}{
		{name: "row out of range", typ: "raw", args: []string{path, "4", "0"}},
		{name: "bad row", typ: "raw", args: []string{path, "x", "0"}},
		{name: "type too wide", typ: "f64", args: []string{path, "0", "0"}},
		{name: "unknown type", typ: "u24", args: []string{path, "0", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getType = tt.typ
			_, err := captureOutput(t, func() error { return runGet(tt.args) })
			require.Error(t, err)
		})
	}
}

func TestPutCommand_InvalidValue(t *testing.T) {
	path := newTestFile(t, 4, 4)

	putType = "u32"
	_, err := captureOutput(t, func() error { return runPut([]string{path, "0", "0", "-1"}) })
	require.Error(t, err)

	putType = "raw"
	_, err = captureOutput(t, func() error { return runPut([]string{path, "0", "0", "ff"}) })
	require.Error(t, err)
}

func TestDumpCommand(t *testing.T) {
	path := newTestFile(t, 3, 3)

	putType = "u32"
	for _, args := range [][]string{{"0", "0", "1"}, {"1", "2", "5"}, {"2", "1", "9"}} {
		_, err := captureOutput(t, func() error { return runPut(append([]string{path}, args...)) })
		require.NoError(t, err)
	}

	dumpType = "u32"
	output, err := captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	assert.Equal(t, "1 0 0\n0 0 5\n0 9 0\n", output)

	dumpFromRow, dumpRows = 1, 1
	output, err = captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	assert.Equal(t, "0 0 5\n", output)

	jsonOut = true
	dumpFromRow, dumpRows = 2, 0
	output, err = captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)

	var rows [][]string
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	assert.Equal(t, [][]string{{"0", "9", "0"}}, rows)

	dumpFromRow = 3
	_, err = captureOutput(t, func() error { return runDump([]string{path}) })
	require.Error(t, err)
}

func TestCellTypes(t *testing.T) {
	tests := []struct {
		typ  string
		in   string
		want string
	}{
		{typ: "u8", in: "255", want: "255"},
		{typ: "i8", in: "-128", want: "-128"},
		{typ: "u16", in: "0x1234", want: "4660"},
		{typ: "i16", in: "-2", want: "-2"},
		{typ: "u64", in: "18446744073709551615", want: "18446744073709551615"},
		{typ: "i64", in: "-9", want: "-9"},
		{typ: "f64", in: "2.25", want: "2.25"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			ct := cellTypes[tt.typ]
			b, err := ct.parse(tt.in, ct.size)
			require.NoError(t, err)
			assert.Len(t, b, ct.size)
			assert.Equal(t, tt.want, ct.format(b))
		})
	}

	_, err := cellTypes["u8"].parse("256", 1)
	assert.Error(t, err)

	ct, err := lookupCellType("raw", 12)
	require.NoError(t, err)
	b, err := ct.parse("0x000102030405060708090a0b", 12)
	require.NoError(t, err)
	assert.Equal(t, byte(11), b[11])
}

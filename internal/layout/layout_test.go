package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Derived(t *testing.T) {
	l, err := New(Params{Rows: 10, Cols: 7, CellSize: 4, SegRows: 4, SegCols: 3}, 64)
	require.NoError(t, err)

	assert.Equal(t, 48, l.SegmentBytes)
	assert.Equal(t, int64(3), l.SegmentsPerRow)
	assert.Equal(t, int64(3), l.TileRows)
	assert.Equal(t, int64(9), l.NumSegments)
	assert.Equal(t, 1, l.SpillCols)
	assert.Equal(t, int64(64+9*48), l.FileSize())
	assert.Equal(t, Slow, l.AddressStrategy())
	assert.Equal(t, Slow, l.SeekStrategy())
}

func TestNew_StrategySelection(t *testing.T) {
	tests := []struct {
		name     string
		p        Params
		wantAddr Strategy
		wantSeek Strategy
	}{
		{"all pow2", Params{Rows: 4, Cols: 4, CellSize: 4, SegRows: 2, SegCols: 2}, Fast, Fast},
		{"pow2 dims odd cell", Params{Rows: 9, Cols: 9, CellSize: 3, SegRows: 4, SegCols: 8}, Fast, Slow},
		{"unit segments", Params{Rows: 9, Cols: 9, CellSize: 4, SegRows: 1, SegCols: 1}, Fast, Fast},
		{"odd rows", Params{Rows: 9, Cols: 9, CellSize: 8, SegRows: 3, SegCols: 4}, Slow, Slow},
		{"odd dims", Params{Rows: 9, Cols: 9, CellSize: 1, SegRows: 3, SegCols: 3}, Slow, Slow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.p, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, l.AddressStrategy())
			assert.Equal(t, tt.wantSeek, l.SeekStrategy())
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"zero rows", Params{Rows: 0, Cols: 1, CellSize: 1, SegRows: 1, SegCols: 1}, "rows"},
		{"negative cols", Params{Rows: 1, Cols: -3, CellSize: 1, SegRows: 1, SegCols: 1}, "cols"},
		{"zero cell", Params{Rows: 1, Cols: 1, CellSize: 0, SegRows: 1, SegCols: 1}, "cell size"},
		{"zero seg rows", Params{Rows: 1, Cols: 1, CellSize: 1, SegRows: 0, SegCols: 1}, "segment rows"},
		{"zero seg cols", Params{Rows: 1, Cols: 1, CellSize: 1, SegRows: 1, SegCols: 0}, "segment cols"},
		{"huge segment", Params{Rows: 1, Cols: 1, CellSize: 1 << 20, SegRows: 1 << 10, SegCols: 1 << 10}, "cell size"},
		{"huge file", Params{Rows: math.MaxInt64, Cols: math.MaxInt64, CellSize: 8, SegRows: 1, SegCols: 1}, "rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)

			var le *Error
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.field, le.Field)
		})
	}
}

func TestAddress_Slow(t *testing.T) {
	l, err := New(Params{Rows: 10, Cols: 7, CellSize: 2, SegRows: 4, SegCols: 3}, 0)
	require.NoError(t, err)

	tests := []struct {
		row, col int64
		seg      int64
		idx      int
	}{
		{0, 0, 0, 0},
		{0, 2, 0, 2},
		{1, 0, 0, 3},
		{3, 2, 0, 11},
		{0, 3, 1, 0},
		{0, 6, 2, 0},
		{4, 0, 3, 0},
		{9, 6, 8, 3},
	}

	for _, tt := range tests {
		seg, idx := l.Address(tt.row, tt.col)
		assert.Equal(t, tt.seg, seg, "seg for (%d,%d)", tt.row, tt.col)
		assert.Equal(t, tt.idx, idx, "idx for (%d,%d)", tt.row, tt.col)
	}
}

func TestStrategyEquivalence(t *testing.T) {
	geometries := []Params{
		{Rows: 4, Cols: 4, CellSize: 4, SegRows: 2, SegCols: 2},
		{Rows: 37, Cols: 53, CellSize: 8, SegRows: 8, SegCols: 16},
		{Rows: 1, Cols: 100, CellSize: 2, SegRows: 1, SegCols: 32},
		{Rows: 65, Cols: 3, CellSize: 1, SegRows: 64, SegCols: 4},
	}

	for _, p := range geometries {
		l, err := New(p, 64)
		require.NoError(t, err)
		require.Equal(t, Fast, l.AddressStrategy())
		require.Equal(t, Fast, l.SeekStrategy())

		slow, err := l.WithStrategies(Slow, Slow)
		require.NoError(t, err)

		for row := int64(0); row < p.Rows; row++ {
			for col := int64(0); col < p.Cols; col++ {
				fs, fi := l.Address(row, col)
				ss, si := slow.Address(row, col)
				require.Equal(t, ss, fs, "segment for (%d,%d) in %+v", row, col, p)
				require.Equal(t, si, fi, "index for (%d,%d) in %+v", row, col, p)

				off := fi * p.CellSize
				require.Equal(t, slow.Offset(ss, off), l.Offset(fs, off))
			}
		}
	}
}

func TestFlatAddressing(t *testing.T) {
	l, err := New(Params{Rows: 1, Cols: 100, CellSize: 4, SegRows: 1, SegCols: 16}, 0)
	require.NoError(t, err)
	slow, err := l.WithStrategies(Slow, Slow)
	require.NoError(t, err)

	for col := int64(0); col < 100; col++ {
		require.True(t, l.Contains(FlatRow, col))

		fs, fi := l.Address(FlatRow, col)
		ss, si := slow.Address(FlatRow, col)
		rs, ri := l.Address(0, col)

		assert.Equal(t, col/16, fs)
		assert.Equal(t, int(col%16), fi)
		assert.Equal(t, fs, ss)
		assert.Equal(t, fi, si)
		assert.Equal(t, fs, rs)
		assert.Equal(t, fi, ri)
	}

	multi, err := New(Params{Rows: 2, Cols: 4, CellSize: 1, SegRows: 1, SegCols: 2}, 0)
	require.NoError(t, err)
	assert.False(t, multi.Contains(FlatRow, 0))
}

func TestContains(t *testing.T) {
	l, err := New(Params{Rows: 3, Cols: 5, CellSize: 1, SegRows: 2, SegCols: 2}, 0)
	require.NoError(t, err)

	assert.True(t, l.Contains(0, 0))
	assert.True(t, l.Contains(2, 4))
	assert.False(t, l.Contains(3, 0))
	assert.False(t, l.Contains(0, 5))
	assert.False(t, l.Contains(-2, 0))
	assert.False(t, l.Contains(0, -1))
}

func TestOffset(t *testing.T) {
	l, err := New(Params{Rows: 6, Cols: 6, CellSize: 3, SegRows: 2, SegCols: 2}, 64)
	require.NoError(t, err)
	require.Equal(t, Slow, l.SeekStrategy())

	assert.Equal(t, int64(64), l.Offset(0, 0))
	assert.Equal(t, int64(64+12), l.Offset(1, 0))
	assert.Equal(t, int64(64+5*12+7), l.Offset(5, 7))
}

func TestRowSpan(t *testing.T) {
	l, err := New(Params{Rows: 2, Cols: 7, CellSize: 1, SegRows: 2, SegCols: 3}, 0)
	require.NoError(t, err)

	col0, n := l.RowSpan(0)
	assert.Equal(t, int64(0), col0)
	assert.Equal(t, 3, n)

	col0, n = l.RowSpan(2)
	assert.Equal(t, int64(6), col0)
	assert.Equal(t, 1, n)

	exact, err := New(Params{Rows: 2, Cols: 6, CellSize: 1, SegRows: 2, SegCols: 3}, 0)
	require.NoError(t, err)
	_, n = exact.RowSpan(1)
	assert.Equal(t, 3, n)
}

func TestWithStrategies_RejectsFast(t *testing.T) {
	l, err := New(Params{Rows: 9, Cols: 9, CellSize: 1, SegRows: 3, SegCols: 3}, 0)
	require.NoError(t, err)

	_, err = l.WithStrategies(Fast, Slow)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = l.WithStrategies(Slow, Fast)
	assert.ErrorIs(t, err, ErrInvalid)
}

func BenchmarkAddress(b *testing.B) {
	l, err := New(Params{Rows: 1 << 14, Cols: 1 << 14, CellSize: 8, SegRows: 64, SegCols: 64}, 64)
	require.NoError(b, err)
	slow, err := l.WithStrategies(Slow, Slow)
	require.NoError(b, err)

	b.Run("fast", func(b *testing.B) {
		var sink int64
		for i := 0; i < b.N; i++ {
			seg, idx := l.Address(int64(i)&(1<<14-1), int64(i>>3)&(1<<14-1))
			sink += seg + int64(idx)
		}
		_ = sink
	})
	b.Run("slow", func(b *testing.B) {
		var sink int64
		for i := 0; i < b.N; i++ {
			seg, idx := slow.Address(int64(i)&(1<<14-1), int64(i>>3)&(1<<14-1))
			sink += seg + int64(idx)
		}
		_ = sink
	})
}

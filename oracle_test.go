package segcache

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segcache/testutil"
)

func TestRandomAccessMatchesOracle(t *testing.T) {
	tests := []struct {
		name string
		geo  Geometry
	}{
		{name: "fast single slot", geo: Geometry{Rows: 16, Cols: 16, CellSize: 4, SegRows: 4, SegCols: 4, Slots: 1}},
		{name: "fast partial tiles", geo: Geometry{Rows: 19, Cols: 13, CellSize: 8, SegRows: 4, SegCols: 8, Slots: 3}},
		{name: "slow", geo: Geometry{Rows: 17, Cols: 11, CellSize: 3, SegRows: 3, SegCols: 5, Slots: 4}},
		{name: "wide cells", geo: Geometry{Rows: 6, Cols: 40, CellSize: 12, SegRows: 2, SegCols: 7, Slots: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := testutil.NewRNG(int64(tt.geo.Rows*31 + tt.geo.Cols))
			oracle := testutil.NewOracle(tt.geo.CellSize)
			m, _, path := createMatrix(t, tt.geo)

			buf := make([]byte, tt.geo.CellSize)
			for i, c := range rng.UniformCells(2000, tt.geo.Rows, tt.geo.Cols) {
				if i%3 == 0 {
					require.NoError(t, m.Get(c.Row, c.Col, buf))
					require.True(t, bytes.Equal(oracle.Get(c.Row, c.Col), buf), "get (%d, %d) at op %d", c.Row, c.Col, i)
					continue
				}
				v := rng.Value(tt.geo.CellSize)
				require.NoError(t, m.Put(c.Row, c.Col, v))
				oracle.Put(c.Row, c.Col, v)
			}
			require.NoError(t, m.table.Validate())
			require.NoError(t, m.Close())

			r, err := OpenReader(path)
			require.NoError(t, err)
			defer r.Close()
			for _, c := range testutil.RowScan(tt.geo.Rows, tt.geo.Cols) {
				require.NoError(t, r.Get(c.Row, c.Col, buf))
				require.True(t, bytes.Equal(oracle.Get(c.Row, c.Col), buf), "reader (%d, %d)", c.Row, c.Col)
			}
		})
	}
}

func TestSkewedAccessMostlyHits(t *testing.T) {
	g := Geometry{Rows: 64, Cols: 64, CellSize: 4, SegRows: 8, SegCols: 8, Slots: 8}
	m, _, _ := createMatrix(t, g)
	defer m.Close()

	rng := testutil.NewRNG(3)
	buf := make([]byte, 4)
	for _, c := range rng.TileSkewedCells(5000, g.Rows, g.Cols, g.SegRows, g.SegCols, 1.5) {
		require.NoError(t, m.Get(c.Row, c.Col, buf))
	}

	st := m.Stats()
	assert.Equal(t, int64(5000), st.Hits+st.Misses)
	assert.Greater(t, st.Hits, st.Misses)
	assert.Equal(t, 8, st.Resident)
	assert.Equal(t, int64(0), st.PageOuts)
}

package segcache

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type elevation float32

func TestValue_RoundTrip(t *testing.T) {
	g := Geometry{Rows: 10, Cols: 10, CellSize: 4, SegRows: 3, SegCols: 3, Slots: 2}
	m, _, _ := createMatrix(t, g)
	defer m.Close()

	require.NoError(t, PutValue(m, 9, 9, float32(math.Pi)))
	require.NoError(t, PutValue(m, 0, 5, int32(-17)))
	require.NoError(t, PutValue(m, 4, 4, elevation(812.5)))

	f, err := GetValue[float32](m, 9, 9)
	require.NoError(t, err)
	assert.Equal(t, float32(math.Pi), f)

	i, err := GetValue[int32](m, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(-17), i)

	e, err := GetValue[elevation](m, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, elevation(812.5), e)

	// Little-endian on disk
	raw := make([]byte, 4)
	require.NoError(t, m.Get(0, 5, raw))
	assert.Equal(t, []byte{0xef, 0xff, 0xff, 0xff}, raw)
}

func TestValue_SizeMismatch(t *testing.T) {
	m, _, _ := createMatrix(t, scenario)
	defer m.Close()

	var ce *ConfigError
	err := PutValue(m, 0, 0, float64(1))
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "cell size", ce.Field)
	assert.Equal(t, int64(4), ce.Value)

	_, err = GetValue[uint16](m, 0, 0)
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, int64(0), m.Stats().Misses)
}

func TestValue_PropagatesErrors(t *testing.T) {
	m, _, _ := createMatrix(t, scenario)

	_, err := GetValue[uint32](m, 4, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, PutValue(m, 0, 0, uint32(1)), ErrClosed)
}

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	v, err := IntToUint32(64)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), v)

	_, err = IntToUint32(-1)
	assert.ErrorIs(t, err, ErrOverflow)

	if math.MaxInt > math.MaxUint32 {
		big := uint64(math.MaxUint32) + 1
		_, err = IntToUint32(int(big))
		assert.ErrorIs(t, err, ErrOverflow)
	}
}

func TestUint32ToInt(t *testing.T) {
	v, err := Uint32ToInt(1 << 20)
	require.NoError(t, err)
	assert.Equal(t, 1<<20, v)

	_, err = Uint32ToInt(math.MaxUint32)
	if math.MaxInt > math.MaxUint32 {
		assert.NoError(t, err)
	} else {
		assert.ErrorIs(t, err, ErrOverflow)
	}
}

func TestUint64ToInt64(t *testing.T) {
	v, err := Uint64ToInt64(1 << 40)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), v)

	_, err = Uint64ToInt64(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}

package hash

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32C_KnownValue(t *testing.T) {
	// RFC 3720 check value.
	assert.Equal(t, uint32(0xe3069283), CRC32C([]byte("123456789")))
}

func TestAppendAndVerify(t *testing.T) {
	b := []byte("SEGC header bytes")
	n := len(b)
	b = AppendCRC32C(b, b)
	require.Len(t, b, n+4)

	sum := binary.LittleEndian.Uint32(b[n:])
	require.NoError(t, VerifyCRC32C(b[:n], sum))

	b[3] ^= 1
	assert.ErrorIs(t, VerifyCRC32C(b[:n], sum), ErrChecksum)
}

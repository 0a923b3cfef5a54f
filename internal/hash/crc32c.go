package hash

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// ErrChecksum is returned by VerifyCRC32C when data does not match.
var ErrChecksum = errors.New("hash: checksum mismatch")

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// AppendCRC32C appends the little-endian CRC32C of data to b. data may
// alias a prefix of b.
func AppendCRC32C(b, data []byte) []byte {
	return binary.LittleEndian.AppendUint32(b, CRC32C(data))
}

// VerifyCRC32C checks data against want.
func VerifyCRC32C(data []byte, want uint32) error {
	if got := CRC32C(data); got != want {
		return fmt.Errorf("%w: %08x, expected %08x", ErrChecksum, got, want)
	}
	return nil
}

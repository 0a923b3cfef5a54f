// Package hash provides the checksums that guard segment file metadata.
//
// # CRC32-Castagnoli (CRC32C)
//
// Headers are sealed with CRC32-Castagnoli, which Go's hash/crc32 computes
// with SSE4.2 or the ARM CRC extension when available.
//
//	b = hash.AppendCRC32C(b, b[start:]) // seal
//	err := hash.VerifyCRC32C(b[:n], sum) // check
package hash

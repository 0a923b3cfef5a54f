package segcache

import (
	"encoding/binary"
	"fmt"
)

// Number is the set of fixed-size cell types supported by GetValue and PutValue.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// CellReader is implemented by Matrix, SyncMatrix and Reader.
type CellReader interface {
	CellSize() int
	Get(row, col int64, dst []byte) error
}

// CellWriter is implemented by Matrix and SyncMatrix.
type CellWriter interface {
	CellSize() int
	Put(row, col int64, src []byte) error
}

// GetValue reads the cell at (row, col) as a little-endian T. The size of T
// must equal the cell size.
func GetValue[T Number](r CellReader, row, col int64) (T, error) {
	var v T
	var buf [8]byte
	n, err := valueSize(v, r.CellSize())
	if err != nil {
		return v, err
	}
	if err := r.Get(row, col, buf[:n]); err != nil {
		return v, err
	}
	if _, err := binary.Decode(buf[:n], binary.LittleEndian, &v); err != nil {
		return v, err
	}
	return v, nil
}

// PutValue stores v little-endian as the cell at (row, col). The size of T
// must equal the cell size.
func PutValue[T Number](w CellWriter, row, col int64, v T) error {
	var buf [8]byte
	n, err := valueSize(v, w.CellSize())
	if err != nil {
		return err
	}
	if _, err := binary.Encode(buf[:n], binary.LittleEndian, v); err != nil {
		return err
	}
	return w.Put(row, col, buf[:n])
}

func valueSize(v any, cellSize int) (int, error) {
	n := binary.Size(v)
	if n != cellSize {
		return 0, &ConfigError{
			Field:  "cell size",
			Value:  int64(cellSize),
			Reason: fmt.Sprintf("value type %T is %d bytes", v, n),
		}
	}
	return n, nil
}

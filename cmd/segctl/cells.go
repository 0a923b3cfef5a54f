package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// cellType converts between cell bytes and their text form.
type cellType struct {
	size   int // 0 for raw, which matches any cell size
	format func(b []byte) string
	parse  func(s string, size int) ([]byte, error)
}

var cellTypes = map[string]cellType{
	"raw": {
		format: func(b []byte) string { return hex.EncodeToString(b) },
		parse: func(s string, size int) ([]byte, error) {
			b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
			if err != nil {
				return nil, err
			}
			if len(b) != size {
				return nil, fmt.Errorf("raw value is %d bytes, cell is %d", len(b), size)
			}
			return b, nil
		},
	},
	"u8":  intType(1, false),
	"i8":  intType(1, true),
	"u16": intType(2, false),
	"i16": intType(2, true),
	"u32": intType(4, false),
	"i32": intType(4, true),
	"u64": intType(8, false),
	"i64": intType(8, true),
	"f32": {
		size: 4,
		format: func(b []byte) string {
			return strconv.FormatFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), 'g', -1, 32)
		},
		parse: func(s string, _ int) ([]byte, error) {
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, err
			}
			return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(f))), nil
		},
	},
	"f64": {
		size: 8,
		format: func(b []byte) string {
			return strconv.FormatFloat(math.Float64frombits(binary.LittleEndian.Uint64(b)), 'g', -1, 64)
		},
		parse: func(s string, _ int) ([]byte, error) {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, err
			}
			return binary.LittleEndian.AppendUint64(nil, math.Float64bits(f)), nil
		},
	},
}

func intType(size int, signed bool) cellType {
	bits := size * 8
	return cellType{
		size: size,
		format: func(b []byte) string {
			var u uint64
			for i := size - 1; i >= 0; i-- {
				u = u<<8 | uint64(b[i])
			}
			if signed {
				// Sign-extend from the cell width.
				return strconv.FormatInt(int64(u<<(64-bits))>>(64-bits), 10)
			}
			return strconv.FormatUint(u, 10)
		},
		parse: func(s string, _ int) ([]byte, error) {
			var u uint64
			if signed {
				v, err := strconv.ParseInt(s, 0, bits)
				if err != nil {
					return nil, err
				}
				u = uint64(v)
			} else {
				v, err := strconv.ParseUint(s, 0, bits)
				if err != nil {
					return nil, err
				}
				u = v
			}
			b := make([]byte, size)
			for i := range b {
				b[i] = byte(u >> (8 * i))
			}
			return b, nil
		},
	}
}

// lookupCellType resolves name for a matrix with the given cell size.
func lookupCellType(name string, cellSize int) (cellType, error) {
	ct, ok := cellTypes[name]
	if !ok {
		names := make([]string, 0, len(cellTypes))
		for n := range cellTypes {
			names = append(names, n)
		}
		sort.Strings(names)
		return cellType{}, fmt.Errorf("unknown type %q (one of %s)", name, strings.Join(names, ", "))
	}
	if ct.size != 0 && ct.size != cellSize {
		return cellType{}, fmt.Errorf("type %s is %d bytes, cell size is %d", name, ct.size, cellSize)
	}
	return ct, nil
}

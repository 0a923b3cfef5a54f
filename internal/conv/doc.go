// Package conv provides checked integer conversions for values read from
// segment file headers.
//
// Header fields are fixed-width and unsigned; the geometry they describe
// uses int and int64. A field that does not fit is treated as corruption
// rather than silently wrapping.
package conv

//go:build !linux

package format

func preallocate(f File, size int64) error {
	return f.Truncate(size)
}

package mmap

// Region is a view of a byte range of a Mapping. It does not own the memory.
type Region struct {
	parent *Mapping
	off    int64
	size   int
}

// Region returns a view of size bytes starting at off.
func (m *Mapping) Region(off int64, size int) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if off < 0 || size < 0 || off > int64(len(m.data))-int64(size) {
		return nil, ErrOutOfBounds
	}
	return &Region{parent: m, off: off, size: size}, nil
}

// Bytes returns the region, or nil once the parent is closed.
func (r *Region) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	return r.parent.data[r.off : r.off+int64(r.size)]
}

// Advise passes an access hint for this region only.
func (r *Region) Advise(pattern AccessPattern) error {
	if r.parent.closed.Load() {
		return ErrClosed
	}
	return osAdvise(r.parent.data[r.off:r.off+int64(r.size)], pattern)
}

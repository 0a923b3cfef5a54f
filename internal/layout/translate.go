package layout

// Address maps a cell coordinate to its segment index and the cell index
// within that segment. The caller must have checked Contains.
func (l *Layout) Address(row, col int64) (seg int64, idx int) {
	if l.addr == Fast {
		return l.addressFast(row, col)
	}
	return l.addressSlow(row, col)
}

// ByteIndex is Address with the intra-segment offset scaled to bytes.
func (l *Layout) ByteIndex(row, col int64) (seg int64, off int) {
	seg, idx := l.Address(row, col)
	return seg, idx * l.CellSize
}

func (l *Layout) addressFast(row, col int64) (int64, int) {
	segC := col >> l.colBits
	if row == FlatRow {
		return segC, int(col - segC<<l.colBits)
	}
	segR := row >> l.rowBits
	seg := segR*l.SegmentsPerRow + segC
	idx := (row-segR<<l.rowBits)<<l.colBits + (col - segC<<l.colBits)
	return seg, int(idx)
}

func (l *Layout) addressSlow(row, col int64) (int64, int) {
	srows, scols := int64(l.SegRows), int64(l.SegCols)
	segC := col / scols
	if row == FlatRow {
		return segC, int(col - segC*scols)
	}
	segR := row / srows
	seg := segR*l.SegmentsPerRow + segC
	idx := (row-segR*srows)*scols + (col - segC*scols)
	return seg, int(idx)
}

// Offset maps a segment index and a byte offset inside that segment to an
// absolute position in the backing file.
func (l *Layout) Offset(seg int64, off int) int64 {
	if l.seek == Fast {
		return seg<<l.sizeBits + int64(off) + l.HeaderSize
	}
	return seg*int64(l.SegmentBytes) + int64(off) + l.HeaderSize
}

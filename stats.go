package segcache

// Stats counts cache activity of one Matrix since it was opened.
type Stats struct {
	Hits           int64
	Misses         int64
	PageIns        int64
	PageOuts       int64
	Evictions      int64
	DirtyEvictions int64
	// Flushes counts flushes that found at least one dirty segment.
	Flushes int64
	// Resident is the number of occupied slots, Slots the table capacity.
	Resident int
	Slots    int
}

// Stats returns a snapshot of the cache counters.
func (m *Matrix) Stats() Stats {
	s := m.stats
	s.Resident = m.table.Resident()
	s.Slots = m.table.Cap()
	return s
}

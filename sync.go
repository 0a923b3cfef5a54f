package segcache

import "sync"

// SyncMatrix serializes every operation of a Matrix with a mutex. Each call
// holds the lock for its whole duration, including any page-in or page-out.
type SyncMatrix struct {
	mu sync.Mutex
	m  *Matrix
}

// Synchronized wraps m for use from several goroutines. m must not be used
// directly afterwards.
func Synchronized(m *Matrix) *SyncMatrix {
	return &SyncMatrix{m: m}
}

// Geometry returns the geometry of the wrapped matrix.
func (s *SyncMatrix) Geometry() Geometry { return s.m.Geometry() }

// CellSize returns the size of one cell in bytes.
func (s *SyncMatrix) CellSize() int { return s.m.CellSize() }

// Get is Matrix.Get under the lock.
func (s *SyncMatrix) Get(row, col int64, dst []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Get(row, col, dst)
}

// Put is Matrix.Put under the lock.
func (s *SyncMatrix) Put(row, col int64, src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Put(row, col, src)
}

// GetFlat is Matrix.GetFlat under the lock.
func (s *SyncMatrix) GetFlat(i int64, dst []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.GetFlat(i, dst)
}

// PutFlat is Matrix.PutFlat under the lock.
func (s *SyncMatrix) PutFlat(i int64, src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.PutFlat(i, src)
}

// GetRow is Matrix.GetRow under the lock.
func (s *SyncMatrix) GetRow(row int64, dst []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.GetRow(row, dst)
}

// PutRow is Matrix.PutRow under the lock.
func (s *SyncMatrix) PutRow(row int64, src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.PutRow(row, src)
}

// Flush is Matrix.Flush under the lock.
func (s *SyncMatrix) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Flush()
}

// Stats returns a snapshot of the wrapped matrix counters.
func (s *SyncMatrix) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Stats()
}

// Close is Matrix.Close under the lock.
func (s *SyncMatrix) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Close()
}

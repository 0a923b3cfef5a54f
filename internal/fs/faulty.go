package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected fault error")

// Fault defines specific failure behavior.
type Fault struct {
	FailReads   bool // every ReadAt fails
	FailWrites  bool // every WriteAt fails
	ShortReads  bool // ReadAt transfers one byte less than requested, without error
	ShortWrites bool // WriteAt transfers one byte less than requested, without error
	FailOnSync  bool
	FailOnClose bool
	Err         error
}

// FaultyFS is a FileSystem wrapper that can inject errors and counts
// positional I/O calls.
//
// Rules are matched when an operation runs, not when the file is opened,
// so faults can be switched on and off against files that are already open.
type FaultyFS struct {
	FS    FileSystem
	mu    sync.Mutex
	rules map[string]Fault // Filename pattern -> Fault

	reads        atomic.Int64
	writes       atomic.Int64
	syncs        atomic.Int64
	bytesRead    atomic.Int64
	bytesWritten atomic.Int64
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:    fs,
		rules: make(map[string]Fault),
	}
}

// AddRule adds a fault injection rule for files whose name contains pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// RemoveRule drops the rule registered for pattern.
func (f *FaultyFS) RemoveRule(pattern string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rules, pattern)
}

// Reads returns the number of ReadAt calls that reached a file.
func (f *FaultyFS) Reads() int64 { return f.reads.Load() }

// Writes returns the number of WriteAt calls that reached a file.
func (f *FaultyFS) Writes() int64 { return f.writes.Load() }

// Syncs returns the number of Sync calls.
func (f *FaultyFS) Syncs() int64 { return f.syncs.Load() }

// BytesRead returns the total bytes transferred by ReadAt.
func (f *FaultyFS) BytesRead() int64 { return f.bytesRead.Load() }

// BytesWritten returns the total bytes transferred by WriteAt.
func (f *FaultyFS) BytesWritten() int64 { return f.bytesWritten.Load() }

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) CreateTemp(dir, pattern string) (File, error) {
	file, err := f.FS.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) Remove(name string) error {
	return f.FS.Remove(name)
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}

// faultFor returns the last matching rule for name, if any.
func (f *FaultyFS) faultFor(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		fault Fault
		found bool
	)
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
			found = true
		}
	}
	if fault.Err == nil {
		fault.Err = ErrInjected
	}
	return fault, found
}

type faultyFile struct {
	File
	fs *FaultyFS
}

func (ff *faultyFile) ReadAt(p []byte, off int64) (int, error) {
	ff.fs.reads.Add(1)
	if fault, ok := ff.fs.faultFor(ff.Name()); ok {
		if fault.FailReads {
			return 0, fault.Err
		}
		if fault.ShortReads && len(p) > 0 {
			p = p[:len(p)-1]
		}
	}
	n, err := ff.File.ReadAt(p, off)
	ff.fs.bytesRead.Add(int64(n))
	return n, err
}

func (ff *faultyFile) WriteAt(p []byte, off int64) (int, error) {
	ff.fs.writes.Add(1)
	if fault, ok := ff.fs.faultFor(ff.Name()); ok {
		if fault.FailWrites {
			return 0, fault.Err
		}
		if fault.ShortWrites && len(p) > 0 {
			p = p[:len(p)-1]
		}
	}
	n, err := ff.File.WriteAt(p, off)
	ff.fs.bytesWritten.Add(int64(n))
	return n, err
}

func (ff *faultyFile) Sync() error {
	ff.fs.syncs.Add(1)
	if fault, ok := ff.fs.faultFor(ff.Name()); ok && fault.FailOnSync {
		return fault.Err
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if fault, ok := ff.fs.faultFor(ff.Name()); ok && fault.FailOnClose {
		ff.File.Close()
		return fault.Err
	}
	return ff.File.Close()
}

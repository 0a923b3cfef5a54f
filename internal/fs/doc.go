// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open backing file with positional read/write, sync and truncate
//   - [FileSystem]: open, create-temp, remove and stat
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection and I/O accounting
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests can inject [FaultyFS] to simulate failures or short transfers:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".seg", fs.Fault{FailReadAfter: 2, FailWriteAfter: -1})
//	// inject ffs into component under test
//
// No method takes a context.Context: segment transfers are synchronous
// positional reads and writes.
package fs

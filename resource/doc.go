// Package resource limits the memory and I/O bandwidth used by segment matrices.
//
//	┌─────────────────────────────────────────────┐
//	│                 Controller                  │
//	├─────────────────────┬───────────────────────┤
//	│  Memory Limit       │  IO Rate Limiter      │
//	│  (fail-fast)        │  (token bucket)       │
//	├─────────────────────┼───────────────────────┤
//	│  AcquireMemory      │  AcquireIO            │
//	│  ReleaseMemory      │  RateLimitedReaderAt  │
//	│  MemoryUsage        │  RateLimitedWriterAt  │
//	└─────────────────────┴───────────────────────┘
//
// A matrix reserves the memory for all of its slot buffers when it is opened
// and releases it on Close. Several matrices can share one Controller so a
// single budget covers all of them:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	cost, _ := segcache.Create("cost.seg", g, segcache.WithResourceController(rc))
//	dir, _ := segcache.Create("dir.seg", g, segcache.WithResourceController(rc))
//
// Independently of any Controller, a matrix never reserves more than
// SystemMemory.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
package resource

package segcache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// RecordHit and RecordMiss run on every cell access and must be cheap.
type MetricsCollector interface {
	// RecordHit is called when an accessed segment was already resident.
	RecordHit()

	// RecordMiss is called when an accessed segment had to be paged in.
	RecordMiss()

	// RecordPageIn is called after each segment read from the backing file.
	RecordPageIn(bytes int, duration time.Duration, err error)

	// RecordPageOut is called after each segment write to the backing file.
	RecordPageOut(bytes int, duration time.Duration, err error)

	// RecordEviction is called when a resident segment gives up its slot.
	// dirty reports whether it had to be written back first.
	RecordEviction(dirty bool)

	// RecordFlush is called after each Flush that found dirty segments.
	RecordFlush(segments int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordHit()                                {}
func (NoopMetricsCollector) RecordMiss()                               {}
func (NoopMetricsCollector) RecordPageIn(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordPageOut(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordEviction(bool)                       {}
func (NoopMetricsCollector) RecordFlush(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// It is safe to share between matrices.
type BasicMetricsCollector struct {
	Hits            atomic.Int64
	Misses          atomic.Int64
	PageIns         atomic.Int64
	PageInBytes     atomic.Int64
	PageInNanos     atomic.Int64
	PageOuts        atomic.Int64
	PageOutBytes    atomic.Int64
	PageOutNanos    atomic.Int64
	IOErrors        atomic.Int64
	Evictions       atomic.Int64
	DirtyEvictions  atomic.Int64
	Flushes         atomic.Int64
	FlushedSegments atomic.Int64
	FlushErrors     atomic.Int64
}

// RecordHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordHit() { b.Hits.Add(1) }

// RecordMiss implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMiss() { b.Misses.Add(1) }

// RecordPageIn implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPageIn(bytes int, duration time.Duration, err error) {
	if err != nil {
		b.IOErrors.Add(1)
		return
	}
	b.PageIns.Add(1)
	b.PageInBytes.Add(int64(bytes))
	b.PageInNanos.Add(duration.Nanoseconds())
}

// RecordPageOut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPageOut(bytes int, duration time.Duration, err error) {
	if err != nil {
		b.IOErrors.Add(1)
		return
	}
	b.PageOuts.Add(1)
	b.PageOutBytes.Add(int64(bytes))
	b.PageOutNanos.Add(duration.Nanoseconds())
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(dirty bool) {
	b.Evictions.Add(1)
	if dirty {
		b.DirtyEvictions.Add(1)
	}
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(segments int, _ time.Duration, err error) {
	b.Flushes.Add(1)
	b.FlushedSegments.Add(int64(segments))
	if err != nil {
		b.FlushErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Hits:            b.Hits.Load(),
		Misses:          b.Misses.Load(),
		HitRatio:        ratio(b.Hits.Load(), b.Misses.Load()),
		PageIns:         b.PageIns.Load(),
		PageInBytes:     b.PageInBytes.Load(),
		PageInAvgNanos:  avg(b.PageInNanos.Load(), b.PageIns.Load()),
		PageOuts:        b.PageOuts.Load(),
		PageOutBytes:    b.PageOutBytes.Load(),
		PageOutAvgNanos: avg(b.PageOutNanos.Load(), b.PageOuts.Load()),
		IOErrors:        b.IOErrors.Load(),
		Evictions:       b.Evictions.Load(),
		DirtyEvictions:  b.DirtyEvictions.Load(),
		Flushes:         b.Flushes.Load(),
		FlushedSegments: b.FlushedSegments.Load(),
		FlushErrors:     b.FlushErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

func ratio(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Hits            int64
	Misses          int64
	HitRatio        float64
	PageIns         int64
	PageInBytes     int64
	PageInAvgNanos  int64
	PageOuts        int64
	PageOutBytes    int64
	PageOutAvgNanos int64
	IOErrors        int64
	Evictions       int64
	DirtyEvictions  int64
	Flushes         int64
	FlushedSegments int64
	FlushErrors     int64
}

package embdrift

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordIndexBuild is called after each neighbor-index construction.
	// vectors and dimension describe the indexed space, duration is the
	// build time, err is nil if successful.
	RecordIndexBuild(vectors, dimension int, duration time.Duration, err error)

	// RecordCacheLookup is called for each index-cache lookup when a cache
	// is configured.
	RecordCacheLookup(hit bool)

	// RecordCompare is called after each comparison.
	// compared is the number of scored keys, k the neighborhood size,
	// duration the total time taken, err is nil if successful.
	RecordCompare(compared, k int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIndexBuild(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheLookup(bool)                          {}
func (NoopMetricsCollector) RecordCompare(int, int, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IndexBuildCount      atomic.Int64
	IndexBuildErrors     atomic.Int64
	IndexBuildTotalNanos atomic.Int64
	CacheHits            atomic.Int64
	CacheMisses          atomic.Int64
	CompareCount         atomic.Int64
	CompareErrors        atomic.Int64
	CompareTotalNanos    atomic.Int64
	ComparedKeys         atomic.Int64
}

// RecordIndexBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexBuild(vectors, dimension int, duration time.Duration, err error) {
	b.IndexBuildCount.Add(1)
	b.IndexBuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IndexBuildErrors.Add(1)
	}
}

// RecordCacheLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheLookup(hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// RecordCompare implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompare(compared, k int, duration time.Duration, err error) {
	b.CompareCount.Add(1)
	b.ComparedKeys.Add(int64(compared))
	b.CompareTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CompareErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IndexBuildCount:  b.IndexBuildCount.Load(),
		IndexBuildErrors: b.IndexBuildErrors.Load(),
		CacheHits:        b.CacheHits.Load(),
		CacheMisses:      b.CacheMisses.Load(),
		CompareCount:     b.CompareCount.Load(),
		CompareErrors:    b.CompareErrors.Load(),
		ComparedKeys:     b.ComparedKeys.Load(),
		CompareAvgNanos:  b.getAvgCompareNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgCompareNanos() int64 {
	count := b.CompareCount.Load()
	if count == 0 {
		return 0
	}
	return b.CompareTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IndexBuildCount  int64
	IndexBuildErrors int64
	CacheHits        int64
	CacheMisses      int64
	CompareCount     int64
	CompareErrors    int64
	ComparedKeys     int64
	CompareAvgNanos  int64
}

package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker tracks usage statistics per provider plus run-level pipeline
// counters. Safe for concurrent use by parallel device pipelines.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*ProviderStats

	run RunStats
}

// ProviderStats holds metrics for a specific upstream provider.
// Fields are accessed atomically.
type ProviderStats struct {
	CacheHits   int64
	CacheMisses int64
	APISuccess  int64
	APIFailures int64
}

// RunStats holds counters for the current aggregation run.
// Fields are accessed atomically.
type RunStats struct {
	PagesFetched    int64
	RecordsMerged   int64
	PointsExtracted int64
	PointsSkipped   int64
	FeaturesWritten int64
	DeviceFailures  int64
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*ProviderStats),
	}
}

// getStats returns the stats object for a provider, creating it if needed.
func (t *Tracker) getStats(provider string) *ProviderStats {
	t.mu.RLock()
	s, ok := t.stats[provider]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[provider]; ok {
		return s
	}
	s = &ProviderStats{}
	t.stats[provider] = s
	return s
}

// TrackCacheHit increments the cache hit counter.
func (t *Tracker) TrackCacheHit(provider string) {
	atomic.AddInt64(&t.getStats(provider).CacheHits, 1)
}

func (t *Tracker) TrackCacheMiss(provider string) {
	atomic.AddInt64(&t.getStats(provider).CacheMisses, 1)
}

func (t *Tracker) TrackAPISuccess(provider string) {
	atomic.AddInt64(&t.getStats(provider).APISuccess, 1)
}

func (t *Tracker) TrackAPIFailure(provider string) {
	atomic.AddInt64(&t.getStats(provider).APIFailures, 1)
}

// Pipeline counters, incremented by the per-device runs.

func (t *Tracker) TrackPageFetched() {
	atomic.AddInt64(&t.run.PagesFetched, 1)
}

func (t *Tracker) TrackRecordsMerged(n int) {
	atomic.AddInt64(&t.run.RecordsMerged, int64(n))
}

func (t *Tracker) TrackPointExtracted() {
	atomic.AddInt64(&t.run.PointsExtracted, 1)
}

func (t *Tracker) TrackPointSkipped() {
	atomic.AddInt64(&t.run.PointsSkipped, 1)
}

func (t *Tracker) TrackFeatures(n int) {
	atomic.AddInt64(&t.run.FeaturesWritten, int64(n))
}

func (t *Tracker) TrackDeviceFailure() {
	atomic.AddInt64(&t.run.DeviceFailures, 1)
}

// Snapshot returns a copy of the current provider stats.
func (t *Tracker) Snapshot() map[string]ProviderStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]ProviderStats)
	for k, v := range t.stats {
		result[k] = ProviderStats{
			CacheHits:   atomic.LoadInt64(&v.CacheHits),
			CacheMisses: atomic.LoadInt64(&v.CacheMisses),
			APISuccess:  atomic.LoadInt64(&v.APISuccess),
			APIFailures: atomic.LoadInt64(&v.APIFailures),
		}
	}
	return result
}

// RunSnapshot returns a copy of the run-level counters.
func (t *Tracker) RunSnapshot() RunStats {
	return RunStats{
		PagesFetched:    atomic.LoadInt64(&t.run.PagesFetched),
		RecordsMerged:   atomic.LoadInt64(&t.run.RecordsMerged),
		PointsExtracted: atomic.LoadInt64(&t.run.PointsExtracted),
		PointsSkipped:   atomic.LoadInt64(&t.run.PointsSkipped),
		FeaturesWritten: atomic.LoadInt64(&t.run.FeaturesWritten),
		DeviceFailures:  atomic.LoadInt64(&t.run.DeviceFailures),
	}
}

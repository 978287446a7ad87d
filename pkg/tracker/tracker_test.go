package tracker

import (
	"sync"
	"testing"
)

func TestTracker_ProviderStats(t *testing.T) {
	tr := New()

	tr.TrackCacheHit("processor")
	tr.TrackCacheHit("processor")
	tr.TrackCacheMiss("processor")
	tr.TrackAPISuccess("processor")
	tr.TrackAPIFailure("other")

	snap := tr.Snapshot()
	if snap["processor"].CacheHits != 2 {
		t.Errorf("CacheHits = %d, want 2", snap["processor"].CacheHits)
	}
	if snap["processor"].CacheMisses != 1 {
		t.Errorf("CacheMisses = %d, want 1", snap["processor"].CacheMisses)
	}
	if snap["processor"].APISuccess != 1 {
		t.Errorf("APISuccess = %d, want 1", snap["processor"].APISuccess)
	}
	if snap["other"].APIFailures != 1 {
		t.Errorf("APIFailures = %d, want 1", snap["other"].APIFailures)
	}
}

func TestTracker_RunCountersConcurrent(t *testing.T) {
	tr := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.TrackPageFetched()
				tr.TrackRecordsMerged(5)
				tr.TrackPointExtracted()
				tr.TrackPointSkipped()
			}
		}()
	}
	wg.Wait()

	run := tr.RunSnapshot()
	if run.PagesFetched != 800 {
		t.Errorf("PagesFetched = %d, want 800", run.PagesFetched)
	}
	if run.RecordsMerged != 4000 {
		t.Errorf("RecordsMerged = %d, want 4000", run.RecordsMerged)
	}
	if run.PointsExtracted != 800 || run.PointsSkipped != 800 {
		t.Errorf("points = %d/%d, want 800/800", run.PointsExtracted, run.PointsSkipped)
	}
}

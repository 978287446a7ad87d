// Package aggregator drives the end-to-end run: enumerate devices,
// rebuild each device's state history, and write one GeoJSON track
// document per device.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hoardmap/pkg/config"
	"hoardmap/pkg/db"
	"hoardmap/pkg/model"
	"hoardmap/pkg/output"
	"hoardmap/pkg/source"
	"hoardmap/pkg/state"
	"hoardmap/pkg/track"
	"hoardmap/pkg/tracker"
)

// Runner orchestrates one aggregation run across all devices.
type Runner struct {
	src      *source.Client
	pipeline *track.Pipeline
	writer   *output.Writer
	tracker  *tracker.Tracker
	db       *db.DB // optional, run records are skipped when nil

	fanOut       int
	onFetchError string
}

// New assembles a Runner from the configured components. database may
// be nil, in which case no run records are persisted.
func New(src *source.Client, writer *output.Writer, t *tracker.Tracker, database *db.DB, cfg config.AggregateConfig) *Runner {
	return &Runner{
		src:          src,
		pipeline:     NewPipeline(cfg),
		writer:       writer,
		tracker:      t,
		db:           database,
		fanOut:       max(cfg.FanOut, 1),
		onFetchError: cfg.OnFetchError,
	}
}

// NewPipeline builds the per-segment geometry pipeline from config.
func NewPipeline(cfg config.AggregateConfig) *track.Pipeline {
	var smoother track.Smoother
	switch cfg.Smoother {
	case config.SmootherWindow:
		smoother = track.WindowSmoother{Window: cfg.WindowSize}
	default:
		smoother = track.ChaikinSmoother{Iterations: cfg.ChaikinIterations}
	}
	return &track.Pipeline{
		MaxJumpKm:     cfg.MaxJump.Km(),
		Epsilon:       cfg.RDPEpsilon,
		MinPoints:     cfg.MinSegmentPoints,
		Smoother:      smoother,
		IncludeStates: cfg.IncludeStates,
	}
}

// Run performs a full aggregation pass. It returns an error only when
// the device list itself cannot be fetched; individual device failures
// are logged, counted, and absorbed.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	startedAt := time.Now()
	slog.Info("Aggregation run starting", "run_id", runID)

	if r.db != nil {
		if err := r.db.StartRun(ctx, runID, startedAt); err != nil {
			slog.Error("Failed to record run start", "run_id", runID, "error", err)
		}
	}

	devices, err := r.src.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("device list unavailable: %w", err)
	}
	slog.Info("Devices discovered", "count", len(devices))

	var failed int64
	sem := make(chan struct{}, r.fanOut)
	var wg sync.WaitGroup
	for _, dev := range devices {
		wg.Add(1)
		go func(dev model.Device) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := r.processDevice(ctx, dev); err != nil {
				atomic.AddInt64(&failed, 1)
				r.tracker.TrackDeviceFailure()
				slog.Error("Device aggregation failed", "device", dev.DeviceID, "error", err)
			}
		}(dev)
	}
	wg.Wait()

	stats := r.tracker.RunSnapshot()
	if r.db != nil {
		rec := db.RunRecord{
			RunID:           runID,
			StartedAt:       startedAt,
			FinishedAt:      time.Now(),
			DevicesTotal:    len(devices),
			DevicesFailed:   int(failed),
			FeaturesWritten: int(stats.FeaturesWritten),
		}
		if err := r.db.FinishRun(ctx, rec); err != nil {
			slog.Error("Failed to record run outcome", "run_id", runID, "error", err)
		}
	}
	slog.Info("Aggregation run finished",
		"run_id", runID,
		"devices", len(devices),
		"failed", failed,
		"pages", stats.PagesFetched,
		"features", stats.FeaturesWritten,
		"duration", time.Since(startedAt).Round(time.Millisecond))
	return nil
}

// processDevice rebuilds one device's track and writes its document.
func (r *Runner) processDevice(ctx context.Context, dev model.Device) error {
	records, fetchErr := r.fetchHistory(ctx, dev)
	if fetchErr != nil {
		if r.onFetchError == config.OnFetchErrorSkipWrite {
			return fmt.Errorf("history fetch: %w", fetchErr)
		}
		slog.Warn("History fetch incomplete, emitting partial track",
			"device", dev.DeviceID, "records", len(records), "error", fetchErr)
	}

	points := r.reconstruct(records)
	doc := r.pipeline.BuildDocument(points)
	r.tracker.TrackFeatures(len(doc.Features))

	if err := r.writer.WriteDocument(dev.DeviceID, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	slog.Info("Track written",
		"device", dev.DeviceID,
		"records", len(records),
		"points", len(points),
		"features", len(doc.Features))

	if fetchErr != nil {
		return fmt.Errorf("history fetch (partial track written): %w", fetchErr)
	}
	return nil
}

// fetchHistory walks a device's history pages and returns the flattened
// delta records, newest first. On a page failure it returns whatever
// was collected so far together with the error.
func (r *Runner) fetchHistory(ctx context.Context, dev model.Device) ([]model.DeltaRecord, error) {
	next := r.src.HistoryStart(dev)
	if next == "" {
		slog.Debug("Device exposes no history link", "device", dev.DeviceID)
		return nil, nil
	}

	var records []model.DeltaRecord
	// The entry page is the live head and must not be served from cache;
	// deeper cursor pages are immutable and safe to reuse.
	cacheable := false
	for next != "" {
		page, err := r.src.FetchPage(ctx, next, cacheable)
		if err != nil {
			return records, err
		}
		r.tracker.TrackPageFetched()
		records = append(records, page.Data...)
		next = page.Navigation.NextPage
		cacheable = true
	}
	return records, nil
}

// reconstruct replays delta records oldest to newest through the state
// reconstructor and extracts one track point per positioned snapshot.
// Records arrive newest first, so the slice is walked backwards.
func (r *Runner) reconstruct(records []model.DeltaRecord) []model.TrackPoint {
	rec := state.NewReconstructor()
	points := make([]model.TrackPoint, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		snapshot := rec.Apply(records[i])
		r.tracker.TrackRecordsMerged(1)
		pt, ok := state.ExtractPoint(snapshot)
		if !ok {
			r.tracker.TrackPointSkipped()
			continue
		}
		r.tracker.TrackPointExtracted()
		points = append(points, pt)
	}
	return points
}

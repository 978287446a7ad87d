package api

import (
	"log/slog"
	"net/http"

	"hoardmap/pkg/db"
	"hoardmap/pkg/tracker"
)

// StatsHandler reports upstream request statistics and the outcome of
// the most recent aggregation run.
type StatsHandler struct {
	tracker *tracker.Tracker
	db      *db.DB // optional, run history is omitted when nil
}

func NewStatsHandler(t *tracker.Tracker, database *db.DB) *StatsHandler {
	return &StatsHandler{tracker: t, db: database}
}

type ProviderStatsDTO struct {
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	APISuccess    int64 `json:"api_success"`
	APIFailures   int64 `json:"api_errors"`
	RequestsTotal int64 `json:"requests_total"`
	HitRate       int64 `json:"hit_rate"`
}

type RunStatsDTO struct {
	PagesFetched    int64 `json:"pages_fetched"`
	RecordsMerged   int64 `json:"records_merged"`
	PointsExtracted int64 `json:"points_extracted"`
	PointsSkipped   int64 `json:"points_skipped"`
	FeaturesWritten int64 `json:"features_written"`
	DeviceFailures  int64 `json:"device_failures"`
}

type StatsResponse struct {
	Providers map[string]ProviderStatsDTO `json:"providers"`
	Run       RunStatsDTO                 `json:"run"`
	LastRun   *db.RunRecord               `json:"last_run,omitempty"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Providers: make(map[string]ProviderStatsDTO),
	}

	for provider, s := range h.tracker.Snapshot() {
		total := s.CacheHits + s.CacheMisses
		var hitRate int64
		if total > 0 {
			hitRate = s.CacheHits * 100 / total
		}
		resp.Providers[provider] = ProviderStatsDTO{
			CacheHits:     s.CacheHits,
			CacheMisses:   s.CacheMisses,
			APISuccess:    s.APISuccess,
			APIFailures:   s.APIFailures,
			RequestsTotal: total,
			HitRate:       hitRate,
		}
	}

	run := h.tracker.RunSnapshot()
	resp.Run = RunStatsDTO{
		PagesFetched:    run.PagesFetched,
		RecordsMerged:   run.RecordsMerged,
		PointsExtracted: run.PointsExtracted,
		PointsSkipped:   run.PointsSkipped,
		FeaturesWritten: run.FeaturesWritten,
		DeviceFailures:  run.DeviceFailures,
	}

	if h.db != nil {
		last, err := h.db.LastRun(r.Context())
		if err != nil {
			slog.Error("Failed to load last run record", "error", err)
		} else {
			resp.LastRun = last
		}
	}

	writeJSON(w, resp)
}

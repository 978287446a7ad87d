package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RunRecord is the persisted summary of one aggregation run.
type RunRecord struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	DevicesTotal    int       `json:"devices_total"`
	DevicesFailed   int       `json:"devices_failed"`
	FeaturesWritten int       `json:"features_written"`
}

// StartRun records the beginning of an aggregation run.
func (d *DB) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		runID, startedAt.UTC())
	return err
}

// FinishRun fills in the outcome of a run started with StartRun.
func (d *DB) FinishRun(ctx context.Context, rec RunRecord) error {
	_, err := d.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, devices_total = ?, devices_failed = ?, features_written = ?
		 WHERE run_id = ?`,
		rec.FinishedAt.UTC(), rec.DevicesTotal, rec.DevicesFailed, rec.FeaturesWritten, rec.RunID)
	return err
}

// LastRun returns the most recently finished run, or nil if none exists.
func (d *DB) LastRun(ctx context.Context) (*RunRecord, error) {
	row := d.QueryRowContext(ctx,
		`SELECT run_id, started_at, finished_at, devices_total, devices_failed, features_written
		 FROM runs WHERE finished_at IS NOT NULL ORDER BY finished_at DESC LIMIT 1`)

	var rec RunRecord
	err := row.Scan(&rec.RunID, &rec.StartedAt, &rec.FinishedAt,
		&rec.DevicesTotal, &rec.DevicesFailed, &rec.FeaturesWritten)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

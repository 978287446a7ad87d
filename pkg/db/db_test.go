package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hoardmap/pkg/db"
)

func TestDB(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "db_test.db")

	d, err := db.Init(path)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if d == nil {
		t.Fatal("Init() returned nil DB")
	}
	d.Close()
}

func TestRunRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs_test.db")
	d, err := db.Init(path)
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer d.Close()

	ctx := context.Background()

	// No runs yet
	rec, err := d.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun() failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("LastRun() = %+v, want nil on empty table", rec)
	}

	started := time.Date(2024, 6, 18, 14, 0, 0, 0, time.UTC)
	if err := d.StartRun(ctx, "run-1", started); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}

	if err := d.FinishRun(ctx, db.RunRecord{
		RunID:           "run-1",
		FinishedAt:      started.Add(time.Minute),
		DevicesTotal:    3,
		DevicesFailed:   1,
		FeaturesWritten: 5,
	}); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	rec, err = d.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun() failed: %v", err)
	}
	if rec == nil {
		t.Fatal("LastRun() = nil, want record")
	}
	if rec.RunID != "run-1" || rec.DevicesTotal != 3 || rec.DevicesFailed != 1 || rec.FeaturesWritten != 5 {
		t.Errorf("LastRun() = %+v", rec)
	}
}

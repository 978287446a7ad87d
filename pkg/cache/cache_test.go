package cache

import (
	"context"
	"path/filepath"
	"testing"

	"hoardmap/pkg/db"
)

func TestSQLiteCache(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "cache_test.db")
	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	defer d.Close()
	c := NewSQLiteCache(d)

	ctx := context.Background()

	// Miss before write
	if _, hit := c.GetCache(ctx, "page-1"); hit {
		t.Error("Expected cache miss, got hit")
	}

	if err := c.SetCache(ctx, "page-1", []byte(`{"data":[]}`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	val, hit := c.GetCache(ctx, "page-1")
	if !hit {
		t.Fatal("Expected cache hit after set")
	}
	if string(val) != `{"data":[]}` {
		t.Errorf("GetCache() = %q", val)
	}

	// Overwrite
	if err := c.SetCache(ctx, "page-1", []byte("v2")); err != nil {
		t.Fatalf("Set (overwrite) returned error: %v", err)
	}
	val, _ = c.GetCache(ctx, "page-1")
	if string(val) != "v2" {
		t.Errorf("GetCache() after overwrite = %q, want v2", val)
	}
}

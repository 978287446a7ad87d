package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"hoardmap/pkg/cache"
	"hoardmap/pkg/config"
	"hoardmap/pkg/request"
	"hoardmap/pkg/source"
	"hoardmap/pkg/tracker"
)

func newTestServer(t *testing.T, upstreamURL, tracksDir string) *http.Server {
	t.Helper()

	tr := tracker.New()
	httpc := request.New(cache.NullCache{}, tr, request.Options{
		Retries:   1,
		BaseDelay: 10 * time.Millisecond,
	})
	src := source.New(httpc, config.SourceConfig{
		BaseURL:     upstreamURL,
		DeviceLimit: 100,
		PageLimit:   500,
	})

	return NewServer(
		config.ServerConfig{Address: "localhost:0"},
		NewProxyHandler(src),
		NewStatsHandler(tr, nil),
		tracksDir,
	)
}

func TestHandleDevicesProxied(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/devices" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"device_id": "dev-1", "links": {}}]`)
	}))
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL, t.TempDir())

	req := httptest.NewRequest("GET", "/api/devices", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var devices []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &devices); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(devices) != 1 || devices[0]["device_id"] != "dev-1" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleDevicesUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on

	srv := newTestServer(t, upstream.URL, t.TempDir())

	req := httptest.NewRequest("GET", "/api/devices", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleLatestForwardsUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/latest/dev-1":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"location": {"longitude": 13.4, "latitude": 52.5}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL, t.TempDir())

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/latest/dev-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("known device: status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got == "" || got[0] != '{' {
		t.Errorf("unexpected body: %q", got)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/latest/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown device: status = %d, want 404", rec.Code)
	}
}

func TestServeTrackDocuments(t *testing.T) {
	dir := t.TempDir()
	doc := `{"type": "FeatureCollection", "features": []}`
	if err := os.WriteFile(filepath.Join(dir, "dev-1.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := newTestServer(t, "http://localhost:1", dir)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/data/dev-1.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != doc {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/data/missing.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing document: status = %d, want 404", rec.Code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1", t.TempDir())

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/version", nil))
	var v map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v["version"] == "" {
		t.Error("version missing from response")
	}
}

// Package api implements the republisher: a small HTTP server that
// serves the generated track documents and proxies a few live endpoints
// of the upstream processor, so map frontends only talk to us.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hoardmap/pkg/config"
	"hoardmap/pkg/version"
)

// NewServer wires the republisher routes and returns a configured server.
func NewServer(cfg config.ServerConfig, proxy *ProxyHandler, stats *StatsHandler, tracksDir string) *http.Server {
	r := mux.NewRouter()

	r.HandleFunc("/health", handleHealth).Methods("GET")
	r.HandleFunc("/api/version", handleVersion).Methods("GET")
	r.Handle("/api/stats", stats).Methods("GET")
	r.HandleFunc("/api/log/latest", handleLatestLog).Methods("GET")

	r.HandleFunc("/api/devices", proxy.HandleDevices).Methods("GET")
	r.HandleFunc("/api/latest/{device_id}", proxy.HandleLatest).Methods("GET")

	// Generated documents. Served straight off disk so a running
	// aggregation becomes visible file by file.
	r.PathPrefix("/data/").Handler(
		http.StripPrefix("/data/", http.FileServer(http.Dir(tracksDir)))).Methods("GET")

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"version": version.Version})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"hoardmap/pkg/request"
	"hoardmap/pkg/source"
)

// ProxyHandler republishes the upstream processor's live endpoints. The
// frontend never talks to the processor directly; we forward its status
// codes when it answers and degrade to 503 when it does not.
type ProxyHandler struct {
	src *source.Client
}

func NewProxyHandler(src *source.Client) *ProxyHandler {
	return &ProxyHandler{src: src}
}

// HandleDevices forwards the device listing.
func (h *ProxyHandler) HandleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.src.ListDevices(r.Context())
	if err != nil {
		h.fail(w, "device listing", err)
		return
	}
	writeJSON(w, devices)
}

// HandleLatest forwards one device's current full state.
func (h *ProxyHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["device_id"]

	body, err := h.src.Latest(r.Context(), deviceID)
	if err != nil {
		h.fail(w, "latest state", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		slog.Error("Failed to write proxied response", "error", err)
	}
}

// fail maps an upstream error onto our response: upstream HTTP errors
// keep their status, anything else (unreachable, timeout) becomes 503.
func (h *ProxyHandler) fail(w http.ResponseWriter, what string, err error) {
	var statusErr *request.StatusError
	if errors.As(err, &statusErr) {
		slog.Warn("Upstream error republished", "endpoint", what, "status", statusErr.Code)
		http.Error(w, http.StatusText(statusErr.Code), statusErr.Code)
		return
	}
	slog.Warn("Upstream unreachable", "endpoint", what, "error", err)
	http.Error(w, "upstream processor unavailable", http.StatusServiceUnavailable)
}

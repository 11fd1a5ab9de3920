package rest

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 3 * time.Second

// pinger is a dependency that can report whether it is usable.
type pinger interface {
	Ping(ctx context.Context) error
}

// clientCounter reports connected realtime clients.
type clientCounter interface {
	ClientCount() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db      pinger
	storage pinger
	hub     clientCounter
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db, storage pinger, hub clientCounter, version string) *HealthHandler {
	return &HealthHandler{db: db, storage: storage, hub: hub, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Clients *int   `json:"clients,omitempty"`
}

// Live reports that the process is up. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready reports 200 when the database and the blob store are usable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if h.db.Ping(ctx) != nil || h.storage.Ping(ctx) != nil {
		status, code = "down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Health reports every component with latencies, the realtime client count
// and the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	clients := h.hub.ClientCount()
	components := map[string]CompStatus{
		"database": ping(ctx, h.db),
		"storage":  ping(ctx, h.storage),
		"realtime": {Status: "ok", Clients: &clients},
	}

	overall, code := "ok", http.StatusOK
	for _, c := range components {
		if c.Status != "ok" {
			overall, code = "down", http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func ping(ctx context.Context, p pinger) CompStatus {
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return CompStatus{Status: "down"}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}

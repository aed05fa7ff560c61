package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pixelvault-dev/pixelvault/internal/api"
)

// Health is a liveness probe endpoint.
// Always returns 200 OK; the body reports database connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	database := "Connected"
	if err := h.health.Ping(ctx); err != nil {
		database = "Disconnected"
	}

	writeJSON(w, http.StatusOK, api.HealthResponse{
		Success:   true,
		Message:   "Server is running!",
		Database:  database,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready is a readiness probe endpoint.
// Returns 503 Service Unavailable until the database can serve requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("database unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

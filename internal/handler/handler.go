package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pixelvault-dev/pixelvault/internal/config"
	"github.com/pixelvault-dev/pixelvault/internal/logger"
	"github.com/pixelvault-dev/pixelvault/internal/markdown"
	"github.com/pixelvault-dev/pixelvault/internal/service"
)

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	image    service.ImageService
	health   HealthChecker
	captions *markdown.CaptionRenderer
	cfg      *config.Config
}

func New(image service.ImageService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		image:    image,
		health:   health,
		captions: markdown.New(),
		cfg:      cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

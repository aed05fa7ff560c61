package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pixelvault-dev/pixelvault/internal/middleware/metrics"
	"github.com/pixelvault-dev/pixelvault/internal/setup"
)

// New creates and configures the router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)

	// CORS for the upload frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Public.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	// Encoded payloads are large; cap the body well above the 10MiB
	// image bound so the size error comes from validation, not the
	// transport.
	r.Use(maxBodyBytes(deps.Config.Public.MaxBodyBytes))

	h := deps.Handler

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", h.Health)
	r.Get("/api/ready", h.Ready)

	r.Route("/api/images", func(r chi.Router) {
		r.Post("/", h.SaveImage)
		r.Get("/", h.ListImages)
		r.Get("/{imageId}", h.GetImage)
		r.Delete("/{imageId}", h.DeleteImage)
	})

	return r
}

func maxBodyBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

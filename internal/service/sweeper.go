package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pixelvault-dev/pixelvault/internal/logger"
)

var imagesSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "pixelvault_images_swept_total",
		Help: "Total number of expired images removed by the background sweep",
	},
)

// ImageSweeper periodically removes records past either expiry deadline:
// the caller-supplied expiry or the 24h backstop after creation.
// Reads already refuse and lazily delete expired records, so the sweep only
// has to catch records nobody asked for again.
type ImageSweeper struct {
	storage        SweepStorage
	lastSweepStats SweepStats
}

// SweepStats tracks metrics from the last sweep run.
type SweepStats struct {
	RunAt         time.Time
	ImagesDeleted int64
	DurationMs    int64
}

// SweepStorage defines the database operation needed for the sweep.
type SweepStorage interface {
	DeleteExpiredImages(ctx context.Context, now time.Time) (int64, error)
}

func NewImageSweeper(storage SweepStorage) *ImageSweeper {
	return &ImageSweeper{storage: storage}
}

// Run sweeps on a ticker until ctx is cancelled. It blocks, so callers
// decide whether it gets its own goroutine or a run-group slot.
func (sw *ImageSweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.Info("started image sweeper",
		"component", "sweeper",
		"interval", interval)

	for {
		select {
		case <-ticker.C:
			if err := sw.RunSweep(ctx); err != nil {
				logger.Log.Error("sweep failed",
					"component", "sweeper",
					"error", err)
				continue
			}
			stats := sw.GetLastSweepStats()
			if stats.ImagesDeleted > 0 {
				logger.Log.Info("sweep completed",
					"component", "sweeper",
					"images_deleted", stats.ImagesDeleted,
					"duration_ms", stats.DurationMs)
			}
		case <-ctx.Done():
			logger.Log.Info("sweeper shutting down gracefully",
				"component", "sweeper")
			return nil
		}
	}
}

// RunSweep executes a single sweep cycle. It can be called manually for
// testing or maintenance.
func (sw *ImageSweeper) RunSweep(ctx context.Context) error {
	startTime := time.Now()

	deleted, err := sw.storage.DeleteExpiredImages(ctx, startTime.UTC())
	if err != nil {
		return err
	}
	imagesSweptTotal.Add(float64(deleted))

	sw.lastSweepStats = SweepStats{
		RunAt:         startTime,
		ImagesDeleted: deleted,
		DurationMs:    time.Since(startTime).Milliseconds(),
	}
	return nil
}

// GetLastSweepStats returns statistics from the last sweep run.
func (sw *ImageSweeper) GetLastSweepStats() SweepStats {
	return sw.lastSweepStats
}

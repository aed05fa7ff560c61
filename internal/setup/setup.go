package setup

import (
	"context"

	"github.com/pixelvault-dev/pixelvault/internal/config"
	"github.com/pixelvault-dev/pixelvault/internal/handler"
	"github.com/pixelvault-dev/pixelvault/internal/service"
	"github.com/pixelvault-dev/pixelvault/internal/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage *pg.Storage
	Handler *handler.Handler
	Sweeper *service.ImageSweeper
	Config  *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	image := service.NewImage(storage, cfg.Public.MaxImageBytes)
	sweeper := service.NewImageSweeper(storage)

	h := handler.New(image, storage, cfg)

	return &Dependencies{
		Storage: storage,
		Handler: h,
		Sweeper: sweeper,
		Config:  cfg,
	}, nil
}

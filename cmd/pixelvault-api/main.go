package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	rungroup "github.com/oklog/run"

	"github.com/pixelvault-dev/pixelvault/internal/config"
	"github.com/pixelvault-dev/pixelvault/internal/logger"
	"github.com/pixelvault-dev/pixelvault/internal/router"
	"github.com/pixelvault-dev/pixelvault/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	// .env is optional; real deployments pass environment directly
	_ = godotenv.Load()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	if err := run(cfg); err != nil {
		logger.Log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := setup.SetupDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Storage.Cleanup(); err != nil {
			logger.Log.Error("failed to close storage connection", "error", err)
		}
	}()

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Public.Server.Port),
		Handler: router.New(deps),
	}

	var g rungroup.Group

	g.Add(
		func() error {
			logger.Log.Info("server started", "port", cfg.Public.Server.Port)
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		func(error) {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Log.Error("server shutdown failed", "error", err)
			}
		},
	)

	{
		sweepCtx, sweepCancel := context.WithCancel(ctx)
		g.Add(
			func() error { return deps.Sweeper.Run(sweepCtx, cfg.SweepInterval()) },
			func(error) { sweepCancel() },
		)
	}

	g.Add(rungroup.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	err = g.Run()
	var signalErr rungroup.SignalError
	if errors.As(err, &signalErr) {
		logger.Log.Info("received signal, shutting down", "signal", signalErr.Signal)
		return nil
	}
	return err
}

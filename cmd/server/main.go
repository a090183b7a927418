package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/andresuchdata/fullstock/internal/app"
	"github.com/andresuchdata/fullstock/internal/config"
	"github.com/andresuchdata/fullstock/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize")
	}

	if err := a.Serve(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server stopped")
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ringside-labs/fightstats/app"
	"github.com/ringside-labs/fightstats/config"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize app", slog.Any("error", err))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Application exited with error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Application shut down gracefully")
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/bdd-service/internal/app/sweeper"
	"github.com/magabrotheeeer/bdd-service/internal/config"
	"github.com/magabrotheeeer/bdd-service/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("starting subscription sweep", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := sweeper.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize sweeper", sl.Err(err))
		os.Exit(1)
	}

	report, err := app.Run(ctx)
	if err != nil {
		logger.Error("sweep failed", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("sweep done",
		slog.Int("found", report.Found),
		slog.Int("expired", report.Expired),
		slog.Int("failed", report.Failed))
}

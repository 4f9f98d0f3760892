// Command daily_job performs one daily run and prints its summary as JSON. It exits
// non-zero only when the run could not proceed at all.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/mma_daily_engine/internal/platform/app"
	"github.com/SscSPs/mma_daily_engine/internal/platform/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}

	// Logs go to stderr so stdout carries only the summary.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer application.Close()

	summary, runErr := application.Services.DailyJobRunner.Run(ctx, time.Now())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.Error("Failed to write summary", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.Error("Daily job aborted", slog.String("error", runErr.Error()))
		return 1
	}
	return 0
}

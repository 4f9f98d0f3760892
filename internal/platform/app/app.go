// Package app assembles the services shared by the HTTP server and the one-shot job.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_daily_engine/internal/adapters/notification"
	"github.com/SscSPs/mma_daily_engine/internal/adapters/rateprovider"
	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/core/services"
	"github.com/SscSPs/mma_daily_engine/internal/platform/config"
	"github.com/SscSPs/mma_daily_engine/internal/platform/migrations"
	"github.com/SscSPs/mma_daily_engine/internal/repositories/cache"
	"github.com/SscSPs/mma_daily_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/mma_daily_engine/internal/utils"
	"github.com/SscSPs/mma_daily_engine/pkg/database"
)

// App holds the wired services and everything that must be released on shutdown.
type App struct {
	Services *portssvc.ServiceContainer
	Posthog  *utils.PosthogClientWrapper

	closers []func()
}

// New migrates the database and wires repositories, adapters and services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, fmt.Errorf("initialize database pool: %w", err)
	}
	a.closers = append(a.closers, func() { database.ClosePgxPool(pool) })
	logger.Info("Database connection pool established.")

	if err := migrations.Up(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		a.Close()
		return nil, err
	}

	rateCache, err := cache.NewBadgerRateCache(cfg.RateCacheTTL, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() {
		if err := rateCache.Close(); err != nil {
			logger.Error("Error closing rate cache", slog.String("error", err.Error()))
		}
	})

	a.Posthog = utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	a.closers = append(a.closers, a.Posthog.Close)

	var sink portssvc.NotificationSink = notification.LogSink{}
	if a.Posthog.IsInitialized() {
		sink = notification.FanOut{notification.LogSink{}, notification.NewPosthogSink(a.Posthog)}
	}

	collab := services.Collaborators{
		RateCache: rateCache,
		Notifier:  sink,
	}
	if cfg.RateProviderURL != "" {
		collab.RateProvider = rateprovider.NewFrankfurterClient(cfg.RateProviderURL, cfg.RateFetchTimeout,
			rateprovider.WithRetries(cfg.RateFetchRetries))
	}

	a.Services = services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), collab)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

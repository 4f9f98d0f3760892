package handlers

import (
	"fmt"
	"net/http"

	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/middleware"
	"github.com/SscSPs/mma_daily_engine/internal/platform/config"
	"github.com/SscSPs/mma_daily_engine/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) error {
	health := func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
	r.GET("/health", health)

	rate, err := limiter.NewRateFromFormatted(cfg.TriggerRateLimit)
	if err != nil {
		return fmt.Errorf("invalid trigger rate limit %q: %w", cfg.TriggerRateLimit, err)
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", health)

	// Everything else is for the scheduler and operators holding the cron secret.
	protected := v1.Group("",
		middleware.RateLimit(limiter.New(memory.NewStore(), rate)),
		middleware.CronAuthMiddleware(cfg.CronSecret, cfg.CronSecretHash),
		middleware.PosthogMiddleware(posthogClient),
	)
	registerJobRoutes(protected, services.DailyJobRunner, posthogClient)
	registerRateRoutes(protected, services.RateResolver, services.CurrencyConverter)
	return nil
}

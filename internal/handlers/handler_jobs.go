package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/mma_daily_engine/internal/core/ports/services"
	"github.com/SscSPs/mma_daily_engine/internal/handlers/dto"
	"github.com/SscSPs/mma_daily_engine/internal/middleware"
	"github.com/SscSPs/mma_daily_engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// jobHandler exposes the daily job to an external scheduler.
type jobHandler struct {
	runner  portssvc.DailyJobRunnerSvc
	posthog *utils.PosthogClientWrapper
	clock   func() time.Time
}

func newJobHandler(runner portssvc.DailyJobRunnerSvc, posthog *utils.PosthogClientWrapper) *jobHandler {
	return &jobHandler{runner: runner, posthog: posthog, clock: time.Now}
}

// registerJobRoutes registers the cron trigger. Both verbs are accepted since hosted
// schedulers differ in which one they send.
func registerJobRoutes(rg *gin.RouterGroup, runner portssvc.DailyJobRunnerSvc, posthog *utils.PosthogClientWrapper) {
	h := newJobHandler(runner, posthog)

	cron := rg.Group("/cron")
	{
		cron.POST("/daily", h.runDailyJob)
		cron.GET("/daily", h.runDailyJob)
	}
}

// runDailyJob refreshes rates and materializes recurring items for every owner.
// It answers 200 with the summary, or 500 with the partial summary when the run aborted.
func (h *jobHandler) runDailyJob(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	logger.Info("Daily job triggered")

	summary, err := h.runner.Run(c.Request.Context(), h.clock())
	if err != nil {
		logger.Error("Daily job aborted", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.DailyJobResponse{DailyJobSummary: summary, Error: err.Error()})
		return
	}

	middleware.PosthogEvent(c, h.posthog, "daily_job_completed", map[string]any{
		"run_id":               summary.RunID,
		"rates_updated":        summary.RatesUpdated,
		"rates_failed":         len(summary.RatesFailed),
		"owners_processed":     summary.OwnersProcessed,
		"transactions_created": summary.TransactionsCreated,
		"recurring_errors":     len(summary.RecurringErrors),
	})
	c.JSON(http.StatusOK, dto.DailyJobResponse{DailyJobSummary: summary})
}

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/mma_daily_engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":        true,
	"/api/v1/health": true,
}

// distinctIDFor identifies the caller of a cron route by how it authenticated.
func distinctIDFor(c *gin.Context) (string, bool) {
	source, exists := GetTriggerSourceFromContext(c)
	if !exists {
		return "", false
	}
	return "cron:" + source, true
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or path is in skip list
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		distinctID, exists := distinctIDFor(c)
		if !exists {
			return
		}

		// "/api/v1/cron/daily" -> "api_v1_cron_daily"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}

		if err := posthogClient.Enqueue(distinctID, eventName, props); err != nil {
			GetLoggerFromContext(c).Warn("Failed to enqueue posthog event", slog.String("error", err.Error()))
		}
	}
}

// PosthogEvent is a helper to manually send custom events from handlers when needed
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}

	distinctID, exists := distinctIDFor(c)
	if !exists {
		return
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["path"] = c.Request.URL.Path

	if err := posthogClient.Enqueue(distinctID, eventName, properties); err != nil {
		GetLoggerFromContext(c).Warn("Failed to enqueue posthog event", slog.String("error", err.Error()))
	}
}

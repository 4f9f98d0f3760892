package middleware

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/mma_daily_engine/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CronSecretHeader carries the shared secret of the scheduler calling the daily job.
const CronSecretHeader = "x-cron-secret"

// CronAuthMiddleware admits a caller presenting either the shared secret in the
// x-cron-secret header or a Bearer JWT signed with that secret. secretHash, a bcrypt
// hash, may stand in for secret when only header authentication is wanted.
func CronAuthMiddleware(secret, secretHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromContext(c)

		if secret == "" && secretHash == "" {
			logger.Error("Cron trigger called but no cron secret is configured")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Cron trigger is not configured"})
			return
		}

		if provided := c.GetHeader(CronSecretHeader); provided != "" {
			if !secretMatches(provided, secret, secretHash) {
				logger.Warn("Invalid cron secret")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid cron secret"})
				return
			}
			authorize(c, TriggerSourceSecret, logger)
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Cron credentials missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Cron secret or Bearer token required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}
		if secret == "" {
			logger.Warn("Bearer token presented but only a secret hash is configured")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token authentication is not enabled"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], secret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		authorize(c, TriggerSourceToken, logger.With(slog.String("token_subject", claims.Subject)))
	}
}

func secretMatches(provided, secret, secretHash string) bool {
	if secret != "" {
		return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
	}
	return utils.CheckSecretHash(provided, secretHash)
}

// authorize records the trigger source and enriches the request logger before continuing.
func authorize(c *gin.Context, source string, logger *slog.Logger) {
	enriched := logger.With(slog.String("trigger_source", source))
	c.Set(string(triggerSourceKey), source)
	c.Set(string(loggerKey), enriched)
	c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), enriched))
	c.Next()
}

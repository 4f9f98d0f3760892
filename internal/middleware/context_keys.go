package middleware

import "github.com/gin-gonic/gin"

// contextKey is the type of the keys this package stores in contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerKey        = contextKey("logger")
	triggerSourceKey = contextKey("triggerSource")
)

// Trigger sources recorded by CronAuthMiddleware.
const (
	TriggerSourceSecret = "secret"
	TriggerSourceToken  = "token"
)

// GetTriggerSourceFromContext returns how the caller of a cron route authenticated.
func GetTriggerSourceFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(triggerSourceKey))
	if !exists {
		return "", false
	}
	source, ok := val.(string)
	return source, ok
}

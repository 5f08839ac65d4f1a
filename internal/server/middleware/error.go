package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nulzo/chat-relay/pkg/api"
)

// ErrorHandler renders the last error attached by a handler as {"detail": ...}.
// Underlying causes are logged at debug level only.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			// at this point it's an unknown error, so it becomes a 500
			apiErr = api.InternalError(err)
		}

		if apiErr.Log != nil {
			logger.Debug("Request failed",
				zap.Int("status", apiErr.Status),
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(apiErr.Log),
			)
		}

		c.AbortWithStatusJSON(apiErr.Status, apiErr.Response())
	}
}

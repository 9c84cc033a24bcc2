package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sukryu/labsite/pkg/errors"
)

// ErrorMiddleware writes the last error attached to the context as a JSON
// error body, unless the handler already wrote a response.
func ErrorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		se, ok := errors.Status(err)
		if !ok {
			logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":    http.StatusInternalServerError,
						"message": "Internal server error",
					},
				})
			}
			return
		}

		if se.Code >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		} else {
			logger.Debug("request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		if c.Writer.Written() {
			return
		}

		body := gin.H{
			"code":    se.Code,
			"message": se.Message,
		}
		if se.Reason != "" {
			body["reason"] = se.Reason
		}
		c.JSON(se.Code, gin.H{"error": body})
	}
}

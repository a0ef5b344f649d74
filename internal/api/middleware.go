package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestLogger attaches a request ID and logs one structured line per
// request with method, path, status, and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.New().String()[:8]
		c.Set("request_id", reqID)
		c.Header("X-Request-Id", reqID)

		start := time.Now()
		c.Next()

		slog.Info("api: request",
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}

// requireJSONBody rejects POST/PUT requests whose declared content type is
// not JSON with 415, before any handler reads the body.
func requireJSONBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}
		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}
		ct := c.ContentType()
		if !strings.HasPrefix(ct, "application/json") {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "content type must be application/json",
			})
			return
		}
		c.Next()
	}
}

package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"listfilter/internal/metrics"
)

// observe logs each request and records its duration and status.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		// Route templates keep label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		s.logger.Info("HTTP Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", duration.String(),
			"ip", c.ClientIP(),
		)

		metrics.HttpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())
		metrics.HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
	}
}

func (s *Server) recover(c *gin.Context, recovered any) {
	s.logger.Error("Panic recovered in HTTP handler",
		"error", recovered,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"stack", string(debug.Stack()),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint(recovered)})
}

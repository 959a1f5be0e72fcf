package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

// Logger assigns a request id and logs method, path, status and latency.
// The query string is omitted so credentials in URLs never reach the log.
// Static assets and health checks are not logged.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if quiet(path) && c.Writer.Status() < 400 {
			return
		}
		log.Printf("[HTTP] %s %s %d %v ip=%s id=%s",
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
			c.ClientIP(),
			id,
		)
	}
}

func quiet(path string) bool {
	return strings.HasSuffix(path, "/healthz") || strings.Contains(path, "/static/")
}

// PathPrefix stores the configured path prefix in the context for redirects
// and templates.
func PathPrefix(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("path_prefix", prefix)
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body limits per route family.
const (
	// DefaultBodyBytes fits a large schema.
	DefaultBodyBytes int64 = 1 << 20
	// SmallBodyBytes fits prompts, credentials and leads.
	SmallBodyBytes int64 = 64 << 10
)

// BodySizeLimit rejects bodies whose declared length exceeds maxBytes and
// caps the reader for chunked bodies, so binding fails past the limit.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "İstek gövdesi çok büyük.",
				"code":  "body_too_large",
				"limit": maxBytes,
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func DefaultBodyLimit() gin.HandlerFunc { return BodySizeLimit(DefaultBodyBytes) }

func SmallBodyLimit() gin.HandlerFunc { return BodySizeLimit(SmallBodyBytes) }

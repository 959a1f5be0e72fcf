package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// cspSources lists the policy directives shared by all pages. Generated
// previews load Tailwind from its CDN and open the chat websocket.
var cspSources = []string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' https://cdn.tailwindcss.com",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data:",
	"connect-src 'self' ws: wss:",
	"base-uri 'self'",
	"form-action 'self'",
}

// SecurityHeaders adds browser hardening headers. Public previews under
// /p/ may be framed by other sites; everything else may not.
func SecurityHeaders() gin.HandlerFunc {
	strict := strings.Join(append(cspSources, "frame-ancestors 'none'"), "; ")
	embeddable := strings.Join(append(cspSources, "frame-ancestors *"), "; ")

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if strings.Contains(path, "/p/") {
			h.Set("Content-Security-Policy", embeddable)
		} else {
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", strict)
		}
		if strings.Contains(path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}

		c.Next()
	}
}

// StrictTransportSecurity adds HSTS for requests that arrived over HTTPS,
// directly or through a proxy.
func StrictTransportSecurity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// Package middleware provides HTTP middleware for sessions, request logging,
// rate limiting, body limits and security headers.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/models"
	"github.com/apricodi/builder/internal/services"
)

const (
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session_id"
	// UserContextKey is the key for storing the *models.User in the context.
	UserContextKey = "user"
)

// SessionValidator resolves a session cookie to its user.
type SessionValidator interface {
	ValidateSession(sessionID string) (*models.User, error)
}

// AuthRequired rejects requests without a valid session. API requests get a
// 401, page requests are redirected to the login page.
func AuthRequired(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			unauthorized(c, "unauthorized")
			return
		}

		user, err := sessions.ValidateSession(sessionID)
		if err != nil {
			c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
			msg := "unauthorized"
			if errors.Is(err, services.ErrSessionExpired) {
				msg = "session expired"
			}
			unauthorized(c, msg)
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func unauthorized(c *gin.Context, msg string) {
	if isAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	redirectToLogin(c)
}

func isAPIRequest(c *gin.Context) bool {
	return strings.Contains(c.Request.URL.Path, "/api/") ||
		strings.HasPrefix(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.GetHeader("Content-Type"), "application/json")
}

func redirectToLogin(c *gin.Context) {
	pathPrefix := c.GetString("path_prefix")
	c.Redirect(http.StatusFound, pathPrefix+"/login")
	c.Abort()
}

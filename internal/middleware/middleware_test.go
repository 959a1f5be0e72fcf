package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/middleware"
	"github.com/apricodi/builder/internal/models"
	"github.com/apricodi/builder/internal/services"
)

type fakeSessions map[string]*models.User

func (f fakeSessions) ValidateSession(id string) (*models.User, error) {
	if id == "expired" {
		return nil, services.ErrSessionExpired
	}
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, services.ErrSessionNotFound
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	sessions := fakeSessions{"good": {ID: "u1", Email: "a@example.com"}}
	r.Use(middleware.PathPrefix("/builder"))
	r.Use(middleware.AuthRequired(sessions))
	handler := func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.ID)
	}
	r.GET("/api/me", handler)
	r.GET("/dashboard", handler)
	return r
}

func TestAuthRequired(t *testing.T) {
	r := authRouter()

	tests := []struct {
		name     string
		path     string
		cookie   string
		status   int
		location string
		body     string
	}{
		{"valid session", "/api/me", "good", http.StatusOK, "", "u1"},
		{"no cookie api", "/api/me", "", http.StatusUnauthorized, "", "unauthorized"},
		{"expired api", "/api/me", "expired", http.StatusUnauthorized, "", "session expired"},
		{"unknown page", "/dashboard", "nope", http.StatusFound, "/builder/login", ""},
		{"valid page", "/dashboard", "good", http.StatusOK, "", "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
			if tt.location != "" && w.Header().Get("Location") != tt.location {
				t.Errorf("expected redirect to %s, got %s", tt.location, w.Header().Get("Location"))
			}
			if tt.body != "" && !strings.Contains(w.Body.String(), tt.body) {
				t.Errorf("expected body to contain %q, got %s", tt.body, w.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := middleware.NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/api/generate", func(c *gin.Context) { c.Status(http.StatusOK) })

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(last, req)
		if i < 2 && last.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, last.Code)
		}
		if i == 0 && last.Header().Get("X-RateLimit-Remaining") != "1" {
			t.Errorf("expected remaining 1, got %q", last.Header().Get("X-RateLimit-Remaining"))
		}
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", last.Code)
	}
	if last.Header().Get("X-RateLimit-Limit") != "2" || last.Header().Get("Retry-After") == "" {
		t.Errorf("unexpected headers %v", last.Header())
	}

	other := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Errorf("other clients must not share the budget, got %d", other.Code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.BodySizeLimit(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("ok")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/api/version", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected X-Frame-Options")
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected API responses to be uncached")
	}
}

func TestSecurityHeaders_PublicPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/p/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p/abc", nil))
	if w.Header().Get("X-Frame-Options") != "" {
		t.Error("public previews must be embeddable")
	}
	if !strings.Contains(w.Header().Get("Content-Security-Policy"), "frame-ancestors *") {
		t.Errorf("unexpected policy %q", w.Header().Get("Content-Security-Policy"))
	}
}

func TestLogger_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Logger())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := w.Header().Get(middleware.RequestIDHeader)
	if id == "" || w.Body.String() != id {
		t.Errorf("expected generated request id, got header %q body %q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(middleware.RequestIDHeader) != "abc-123" {
		t.Error("expected incoming request id to be kept")
	}
}

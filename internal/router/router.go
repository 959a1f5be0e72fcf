// Package router wires handlers and middleware into the gin engine.
package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/assets"
	"github.com/apricodi/builder/internal/config"
	"github.com/apricodi/builder/internal/handlers"
	"github.com/apricodi/builder/internal/middleware"
	"github.com/apricodi/builder/internal/services"
)

// Dependencies are the collaborators the routes need.
type Dependencies struct {
	Auth      *services.AuthService
	Projects  *services.ProjectService
	Leads     *services.LeadService
	Audit     *services.AuditService
	Generator handlers.Generator
	DB        handlers.Pinger
}

// Router is the configured engine plus the limiters it owns.
type Router struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter cleanup goroutines.
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

func New(cfg *config.Config, deps Dependencies) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.StrictTransportSecurity())
	r.Use(middleware.PathPrefix(cfg.Server.PathPrefix))

	tmpl := template.Must(template.New("").ParseFS(assets.TemplatesFS(), "*.html"))
	r.SetHTMLTemplate(tmpl)

	staticHandler := http.FileServer(http.FS(assets.StaticFS()))
	r.GET(cfg.Server.PathPrefix+"/static/*filepath", func(c *gin.Context) {
		c.Request.URL.Path = c.Param("filepath")
		staticHandler.ServeHTTP(c.Writer, c.Request)
	})

	generateLimiter := middleware.NewRateLimiter(cfg.RateLimit.GeneratePerMinute, time.Minute)
	leadLimiter := middleware.NewRateLimiter(cfg.RateLimit.LeadsPerMinute, time.Minute)
	engine := &Router{Engine: r, limiters: []*middleware.RateLimiter{generateLimiter, leadLimiter}}

	prefix := r.Group(cfg.Server.PathPrefix)
	requireAuth := middleware.AuthRequired(deps.Auth)

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Audit, cfg.Server.PathPrefix, cfg.Server.SecureCookie)
	generateHandler := handlers.NewGenerateHandler(deps.Generator, deps.Audit, cfg.Server.PathPrefix)
	projectHandler := handlers.NewProjectHandler(deps.Projects, deps.Audit)
	leadHandler := handlers.NewLeadHandler(deps.Leads, deps.Projects, cfg.Contact.GetCompletionDelay())
	chatHandler := handlers.NewChatHandler(cfg.Chat.GetMinReplyDelay(), cfg.Chat.GetMaxReplyDelay())
	auditHandler := handlers.NewAuditHandler(deps.Audit)
	systemHandler := handlers.NewSystemHandler(deps.DB)
	webHandler := handlers.NewWebHandler(deps.Projects, cfg.Server.PathPrefix)

	prefix.GET("/healthz", systemHandler.Health)

	prefix.GET("/login", authHandler.LoginPage)
	prefix.POST("/login", middleware.SmallBodyLimit(), authHandler.Login)
	prefix.GET("/register", authHandler.RegisterPage)
	prefix.POST("/register", middleware.SmallBodyLimit(), authHandler.Register)
	prefix.GET("/p/:id", webHandler.PublicPreview)

	api := prefix.Group("/api")
	{
		api.GET("/version", systemHandler.Version)

		api.POST("/auth/register", middleware.SmallBodyLimit(), authHandler.Register)
		api.POST("/auth/login", middleware.SmallBodyLimit(), authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/leads", leadLimiter.Middleware(), middleware.SmallBodyLimit(), leadHandler.Create)
		api.GET("/chat/ws", chatHandler.HandleWebSocket)

		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.POST("/generate", generateLimiter.Middleware(), middleware.SmallBodyLimit(), generateHandler.Generate)
			protected.POST("/preview", middleware.DefaultBodyLimit(), generateHandler.Preview)

			protected.GET("/projects", projectHandler.List)
			protected.POST("/projects", middleware.DefaultBodyLimit(), projectHandler.Create)
			protected.POST("/projects/save", middleware.DefaultBodyLimit(), projectHandler.Save)
			protected.GET("/projects/:id", projectHandler.Get)
			protected.PUT("/projects/:id", middleware.DefaultBodyLimit(), projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)
			protected.GET("/projects/:id/leads", leadHandler.List)

			protected.GET("/audit-logs", auditHandler.List)
		}
	}

	web := prefix.Group("")
	web.Use(requireAuth)
	{
		web.GET("/", webHandler.Dashboard)
		web.GET("/builder", webHandler.Builder)
		web.GET("/builder/:id", webHandler.Builder)
		web.POST("/logout", authHandler.Logout)
	}

	if cfg.Server.PathPrefix != "" && cfg.Server.PathPrefix != "/" {
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, cfg.Server.PathPrefix+"/")
		})
	}

	return engine
}

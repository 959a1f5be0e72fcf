package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/middleware"
	"github.com/apricodi/builder/internal/render"
	"github.com/apricodi/builder/internal/schema"
	"github.com/apricodi/builder/internal/services"
	"github.com/apricodi/builder/internal/version"
)

// WebHandler renders the HTML pages.
type WebHandler struct {
	projectService *services.ProjectService
	pathPrefix     string
}

// NewWebHandler creates a new WebHandler instance.
func NewWebHandler(projectService *services.ProjectService, pathPrefix string) *WebHandler {
	return &WebHandler{
		projectService: projectService,
		pathPrefix:     pathPrefix,
	}
}

func (h *WebHandler) renderer(projectID string) *render.Renderer {
	return render.New(
		render.WithProjectID(projectID),
		render.WithLeadAction(h.pathPrefix+"/api/leads"),
		render.WithChatEndpoint(h.pathPrefix+"/api/chat/ws"),
	)
}

// preview renders s into HTML that html/template will not escape again.
func (h *WebHandler) preview(s schema.AppSchema, projectID string) (template.HTML, error) {
	out, err := render.HTML(h.renderer(projectID).Render(s))
	// #nosec G203 -- the renderer escapes all schema text.
	return template.HTML(out), err
}

func (h *WebHandler) errorPage(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{
		"PathPrefix": h.pathPrefix,
		"Status":     status,
		"Error":      msg,
	})
}

// Dashboard renders the project list of the current user.
func (h *WebHandler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, h.pathPrefix+"/login")
		return
	}

	projects, err := h.projectService.ListByOwner(user.ID)
	if err != nil {
		log.Printf("[Web] Failed to list projects: %v", err)
		h.errorPage(c, http.StatusInternalServerError, "Projeler yüklenemedi.")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"PathPrefix": h.pathPrefix,
		"User":       user,
		"Projects":   projects,
		"Version":    version.Version,
	})
}

// Builder renders the prompt form and live preview, either for a new
// project (placeholder schema) or for an existing one.
func (h *WebHandler) Builder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, h.pathPrefix+"/login")
		return
	}

	app := schema.Initial()
	var projectID, name string
	if id := c.Param("id"); id != "" {
		p, err := h.projectService.Get(user.ID, id)
		if errors.Is(err, services.ErrProjectNotFound) {
			h.errorPage(c, http.StatusNotFound, "Proje bulunamadı.")
			return
		}
		if err != nil {
			h.errorPage(c, http.StatusInternalServerError, "Proje yüklenemedi.")
			return
		}
		app, projectID, name = p.Schema, p.ID, p.Name
	}

	page, err := h.preview(app, projectID)
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Önizleme oluşturulamadı.")
		return
	}
	c.HTML(http.StatusOK, "builder.html", gin.H{
		"PathPrefix":  h.pathPrefix,
		"User":        user,
		"ProjectID":   projectID,
		"ProjectName": name,
		"Schema":      app,
		"Preview":     page,
		"Version":     version.Version,
	})
}

// PublicPreview renders a saved project without authentication.
func (h *WebHandler) PublicPreview(c *gin.Context) {
	p, err := h.projectService.GetPublic(c.Param("id"))
	if errors.Is(err, services.ErrProjectNotFound) {
		h.errorPage(c, http.StatusNotFound, "Proje bulunamadı.")
		return
	}
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Proje yüklenemedi.")
		return
	}

	page, err := h.preview(p.Schema, p.ID)
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Önizleme oluşturulamadı.")
		return
	}

	c.HTML(http.StatusOK, "preview.html", gin.H{
		"PathPrefix": h.pathPrefix,
		"Title":      p.Schema.AppName,
		"Preview":    page,
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/middleware"
	"github.com/apricodi/builder/internal/models"
	"github.com/apricodi/builder/internal/schema"
	"github.com/apricodi/builder/internal/services"
	"github.com/apricodi/builder/internal/validation"
)

// ProjectHandler serves the Project Store for the logged-in owner.
type ProjectHandler struct {
	projectService *services.ProjectService
	auditService   *services.AuditService
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(projectService *services.ProjectService, auditService *services.AuditService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		auditService:   auditService,
	}
}

func owner(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return user, ok
}

func projectFailure(c *gin.Context, err error) {
	if errors.Is(err, services.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found", "code": "not_found"})
		return
	}
	storeFailure(c, err)
}

// projectName falls back to the schema's app name when name is blank.
func projectName(name string, s schema.AppSchema) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return strings.TrimSpace(s.AppName)
}

func validateProject(name, description string) error {
	if err := validation.ValidateProjectName(name); err != nil {
		return err
	}
	return validation.ValidateDescription(description)
}

func (h *ProjectHandler) audit(c *gin.Context, user *models.User, action string, p *models.Project) {
	h.auditService.LogProject(user, action, p, c.ClientIP(), c.GetHeader("User-Agent"))
}

// List returns the owner's projects, newest first.
func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListByOwner(user.ID)
	if err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Get returns one project.
func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	p, err := h.projectService.Get(user.ID, c.Param("id"))
	if err != nil {
		projectFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create stores a new project.
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "code": "invalid_input"})
		return
	}
	req.Name = projectName(req.Name, req.Schema)
	if err := validateProject(req.Name, req.Description); err != nil {
		invalidInput(c, err)
		return
	}
	req.Schema = schema.Normalize(req.Schema)

	p, err := h.projectService.Create(user.ID, &req)
	if err != nil {
		storeFailure(c, err)
		return
	}
	h.audit(c, user, "project_create", p)
	c.JSON(http.StatusCreated, p)
}

// Update changes the fields present in the body.
func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "code": "invalid_input"})
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validation.ValidateProjectName(name); err != nil {
			invalidInput(c, err)
			return
		}
		req.Name = &name
	}
	if req.Schema != nil {
		normalized := schema.Normalize(*req.Schema)
		req.Schema = &normalized
	}
	if req.Description != nil {
		if err := validation.ValidateDescription(*req.Description); err != nil {
			invalidInput(c, err)
			return
		}
	}

	p, err := h.projectService.Update(user.ID, c.Param("id"), &req)
	if err != nil {
		projectFailure(c, err)
		return
	}
	h.audit(c, user, "project_update", p)
	c.JSON(http.StatusOK, p)
}

// Save creates or updates depending on whether the body carries an id.
func (h *ProjectHandler) Save(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	var req models.SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "code": "invalid_input"})
		return
	}
	req.Name = projectName(req.Name, req.Schema)
	if err := validateProject(req.Name, req.Description); err != nil {
		invalidInput(c, err)
		return
	}
	req.Schema = schema.Normalize(req.Schema)

	p, created, err := h.projectService.Save(user.ID, &req)
	if err != nil {
		projectFailure(c, err)
		return
	}

	if created {
		h.audit(c, user, "project_create", p)
		c.JSON(http.StatusCreated, p)
		return
	}
	h.audit(c, user, "project_update", p)
	c.JSON(http.StatusOK, p)
}

// Delete removes a project.
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	id := c.Param("id")
	p, err := h.projectService.Get(user.ID, id)
	if err != nil {
		projectFailure(c, err)
		return
	}
	if err := h.projectService.Delete(user.ID, id); err != nil {
		projectFailure(c, err)
		return
	}
	h.audit(c, user, "project_delete", p)
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

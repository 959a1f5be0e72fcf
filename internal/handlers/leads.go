package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/contact"
	"github.com/apricodi/builder/internal/services"
	"github.com/apricodi/builder/internal/validation"
)

// LeadHandler accepts contact-form submissions and lists them for owners.
type LeadHandler struct {
	leadService     *services.LeadService
	projectService  *services.ProjectService
	completionDelay time.Duration
}

// NewLeadHandler creates a new LeadHandler instance. completionDelay is
// reported to the browser, which shows the confirmation for that long.
func NewLeadHandler(leadService *services.LeadService, projectService *services.ProjectService, completionDelay time.Duration) *LeadHandler {
	return &LeadHandler{
		leadService:     leadService,
		projectService:  projectService,
		completionDelay: completionDelay,
	}
}

type leadForm struct {
	contact.Fields
	ProjectID string `json:"project_id" form:"project_id"`
}

// Create handles POST /api/leads. It is public since generated apps are
// shared through the public preview page.
func (h *LeadHandler) Create(c *gin.Context) {
	var req leadForm
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "code": "invalid_input"})
		return
	}

	if req.ProjectID != "" {
		if _, err := h.projectService.GetPublic(req.ProjectID); err != nil {
			projectFailure(c, err)
			return
		}
	}

	form := contact.NewForm(h.leadService, req.ProjectID, contact.WithCompletionDelay(h.completionDelay))
	defer form.Close()
	form.Set(req.Fields)

	lead, err := form.Submit(c.Request.Context())
	if err != nil {
		var fe *validation.FieldError
		if errors.As(err, &fe) {
			invalidInput(c, err)
			return
		}
		log.Printf("[Leads] Failed to store lead for project %q: %v", req.ProjectID, err)
		storeFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"lead":                lead,
		"message":             "Teşekkürler! Mesajınız alındı.",
		"completion_delay_ms": form.CompletionDelay().Milliseconds(),
	})
}

// List handles GET /api/projects/:id/leads for the project owner.
func (h *LeadHandler) List(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	p, err := h.projectService.Get(user.ID, c.Param("id"))
	if err != nil {
		projectFailure(c, err)
		return
	}

	leads, err := h.leadService.ListByProject(c.Request.Context(), p.ID)
	if err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

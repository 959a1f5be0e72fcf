package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/generation"
	"github.com/apricodi/builder/internal/middleware"
	"github.com/apricodi/builder/internal/render"
	"github.com/apricodi/builder/internal/schema"
	"github.com/apricodi/builder/internal/services"
)

// Generator produces a schema from a prompt. *generation.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*schema.AppSchema, error)
}

// GenerateHandler serves prompt-to-schema generation and schema previews.
type GenerateHandler struct {
	generator    Generator
	auditService *services.AuditService
	pathPrefix   string
}

func NewGenerateHandler(generator Generator, auditService *services.AuditService, pathPrefix string) *GenerateHandler {
	return &GenerateHandler{
		generator:    generator,
		auditService: auditService,
		pathPrefix:   pathPrefix,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type previewRequest struct {
	Schema    *schema.AppSchema `json:"schema"`
	ProjectID string            `json:"project_id"`
}

// Generate handles POST /api/generate. The response carries the new schema,
// which replaces the previous one, and its rendered preview.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geçersiz istek.", "code": "invalid_input"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt içeriği gerekli.", "code": "invalid_input"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	app, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		h.auditService.LogGeneration(user, string(generation.KindOf(err)), 0, c.ClientIP(), c.GetHeader("User-Agent"))
		generationFailure(c, err)
		return
	}
	h.auditService.LogGeneration(user, "", len(app.Elements), c.ClientIP(), c.GetHeader("User-Agent"))

	page, err := render.HTML(h.renderer("").Render(*app))
	if err != nil {
		log.Printf("[Generate] Failed to serialise preview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sunucu hatası oluştu.", "code": "internal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schema": app, "html": page})
}

// Preview handles POST /api/preview and renders an arbitrary schema.
func (h *GenerateHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Schema == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schema is required", "code": "invalid_input"})
		return
	}

	page, err := render.HTML(h.renderer(req.ProjectID).Render(*req.Schema))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sunucu hatası oluştu.", "code": "internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": page})
}

func (h *GenerateHandler) renderer(projectID string) *render.Renderer {
	return render.New(
		render.WithProjectID(projectID),
		render.WithLeadAction(h.pathPrefix+"/api/leads"),
		render.WithChatEndpoint(h.pathPrefix+"/api/chat/ws"),
	)
}

// generationFailure maps a generation error to a status and user message.
func generationFailure(c *gin.Context, err error) {
	if errors.Is(err, generation.ErrEmptyPrompt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt içeriği gerekli.", "code": "invalid_input"})
		return
	}
	if errors.Is(err, context.Canceled) {
		c.Status(499)
		return
	}

	var ge *generation.Error
	if !errors.As(err, &ge) {
		log.Printf("[Generate] Unexpected failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sunucu hatası oluştu.", "code": "internal"})
		return
	}

	status := http.StatusBadGateway
	switch ge.Kind {
	case generation.CredentialMissing:
		status = http.StatusInternalServerError
	case generation.UpstreamRequestFailed:
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
	case generation.UpstreamRejected:
		switch ge.Reason {
		case generation.ReasonBadInput:
			status = http.StatusBadRequest
		case generation.ReasonRateLimit:
			status = http.StatusTooManyRequests
		case generation.ReasonServerError:
			status = http.StatusServiceUnavailable
		}
	case generation.EmptyResponse, generation.MalformedResponse, generation.InvalidSchema:
		status = http.StatusUnprocessableEntity
	}

	resp := gin.H{"error": ge.UserMessage(), "code": string(ge.Kind)}
	if ge.Reason != "" {
		resp["reason"] = string(ge.Reason)
	}
	if hint := ge.Hint(); hint != "" {
		resp["hint"] = hint
	}
	c.JSON(status, resp)
}

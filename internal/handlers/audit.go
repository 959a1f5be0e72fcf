package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List returns the current user's audit entries, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	user, ok := owner(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := h.auditService.GetLogs(user.ID, limit, offset)
	if err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

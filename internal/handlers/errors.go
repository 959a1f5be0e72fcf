// Package handlers provides HTTP request handlers for the web UI and API.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apricodi/builder/internal/services"
	"github.com/apricodi/builder/internal/validation"
)

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.GetHeader("Content-Type"), "application/json") ||
		strings.HasPrefix(c.GetHeader("Accept"), "application/json")
}

// storeFailure answers a failed store call. Local state on the client is
// kept, so the message invites a retry.
func storeFailure(c *gin.Context, err error) {
	if errors.Is(err, services.ErrStoreOperationFailed) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "İşlem başarısız oldu. Lütfen tekrar deneyin.",
			"code":  "store_operation_failed",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Sunucu hatası oluştu.", "code": "internal"})
}

func invalidInput(c *gin.Context, err error) {
	resp := gin.H{"error": err.Error(), "code": "invalid_input"}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		resp["field"] = fe.Field
	}
	c.JSON(http.StatusBadRequest, resp)
}

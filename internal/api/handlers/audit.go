package handlers

import (
	"strconv"

	"campusgate/internal/models"
	"campusgate/internal/services"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// GetLogs returns recent audit entries, newest first
func (h *AuditHandler) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	logs, err := h.audit.GetLogs(limit)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to get logs"})
		return
	}

	c.JSON(200, logs)
}

// logAudit records an entry attributed to the authenticated user. Audit
// writes never fail the request they describe.
func logAudit(c *gin.Context, audit *services.AuditService, action, details string) {
	user, exists := c.Get("user")
	if !exists {
		return
	}
	logAuditFor(c, audit, user.(*models.User), action, details)
}

func logAuditFor(c *gin.Context, audit *services.AuditService, u *models.User, action, details string) {
	_ = audit.Record(&models.AuditLog{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Action:    action,
		Details:   details,
		IPAddress: c.ClientIP(),
		RequestID: c.GetString("request_id"),
	})
}

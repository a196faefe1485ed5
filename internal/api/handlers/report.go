package handlers

import (
	"fmt"
	"strconv"

	"campusgate/internal/config"
	"campusgate/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
	audit         *services.AuditService
}

func NewReportHandler(cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reportService: services.NewReportService(cfg),
		audit:         services.NewAuditService(cfg),
	}
}

// GetSummary returns the compliance and ranking dashboard. The peak-day
// window defaults to 30 days; ?window=7 narrows it to the trailing week.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	window, _ := strconv.Atoi(c.DefaultQuery("window", "30"))
	if window != 7 && window != 30 {
		c.JSON(400, gin.H{"error": "window must be 7 or 30"})
		return
	}

	summary, err := h.reportService.GetSummary(window)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to build report", "details": err.Error()})
		return
	}

	c.JSON(200, summary)
}

// ExportCSV streams the HR analytics report as a CSV download
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	data, filename, err := h.reportService.ExportCSV()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to export report", "details": err.Error()})
		return
	}

	logAudit(c, h.audit, "report_export", fmt.Sprintf("exported %s", filename))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/csv", data)
}

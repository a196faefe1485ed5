package handlers

import (
	"errors"
	"fmt"

	"campusgate/internal/config"
	"campusgate/internal/services"

	"github.com/gin-gonic/gin"
)

type ParkingHandler struct {
	parkingService *services.ParkingService
	audit          *services.AuditService
}

func NewParkingHandler(cfg *config.Config) *ParkingHandler {
	return &ParkingHandler{
		parkingService: services.NewParkingService(cfg),
		audit:          services.NewAuditService(cfg),
	}
}

type UpdateParkingRequest struct {
	TotalSpaces    int `json:"total_spaces" binding:"required,min=1"`
	OccupiedSpaces int `json:"occupied_spaces" binding:"min=0"`
}

// GetConfig returns the parking capacity and current occupancy
func (h *ParkingHandler) GetConfig(c *gin.Context) {
	cfg, err := h.parkingService.GetConfig()
	if err != nil {
		if errors.Is(err, services.ErrParkingNotFound) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to get parking configuration"})
		return
	}

	c.JSON(200, gin.H{
		"total_spaces":    cfg.TotalSpaces,
		"occupied_spaces": cfg.OccupiedSpaces,
		"available":       cfg.Available(),
		"updated_at":      cfg.UpdatedAt,
	})
}

// UpdateConfig replaces the parking capacity and occupancy
func (h *ParkingHandler) UpdateConfig(c *gin.Context) {
	var req UpdateParkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cfg, err := h.parkingService.UpdateConfig(req.TotalSpaces, req.OccupiedSpaces)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidParkingConfig):
			c.JSON(400, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrParkingNotFound):
			c.JSON(404, gin.H{"error": err.Error()})
		default:
			c.JSON(500, gin.H{"error": "Failed to update parking configuration"})
		}
		return
	}

	logAudit(c, h.audit, "parking_update", fmt.Sprintf("set total=%d occupied=%d", cfg.TotalSpaces, cfg.OccupiedSpaces))

	c.JSON(200, gin.H{
		"total_spaces":    cfg.TotalSpaces,
		"occupied_spaces": cfg.OccupiedSpaces,
		"available":       cfg.Available(),
		"updated_at":      cfg.UpdatedAt,
	})
}

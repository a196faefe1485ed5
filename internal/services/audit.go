package services

import (
	"campusgate/internal/config"
	"campusgate/internal/models"
)

const defaultAuditLimit = 200

type AuditService struct {
	cfg *config.Config
}

func NewAuditService(cfg *config.Config) *AuditService {
	return &AuditService{cfg: cfg}
}

// Record appends an audit entry. Failures are returned but callers treat
// them as best-effort: an audit write must never fail the operation it
// describes.
func (s *AuditService) Record(entry *models.AuditLog) error {
	return models.DB.Create(entry).Error
}

// GetLogs returns the newest entries first, capped at limit.
func (s *AuditService) GetLogs(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultAuditLimit
	}

	var logs []models.AuditLog
	if err := models.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

package services

import (
	"errors"

	"campusgate/internal/config"
	"campusgate/internal/models"

	"gorm.io/gorm"
)

var (
	ErrParkingNotFound      = errors.New("parking config not found")
	ErrInvalidParkingConfig = errors.New("total spaces cannot be less than occupied spaces")
)

type ParkingService struct {
	cfg *config.Config
}

func NewParkingService(cfg *config.Config) *ParkingService {
	return &ParkingService{cfg: cfg}
}

// GetConfig returns the singleton parking row.
func (s *ParkingService) GetConfig() (*models.ParkingConfigRow, error) {
	var parking models.ParkingConfigRow
	if err := models.DB.Order("id").First(&parking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParkingNotFound
		}
		return nil, err
	}
	return &parking, nil
}

// UpdateConfig applies a direct edit of the lot size and occupancy. The edit
// is rejected when it would leave more cars than spaces.
func (s *ParkingService) UpdateConfig(totalSpaces, occupiedSpaces int) (*models.ParkingConfigRow, error) {
	if totalSpaces < 1 || occupiedSpaces < 0 || occupiedSpaces > totalSpaces {
		return nil, ErrInvalidParkingConfig
	}

	var parking models.ParkingConfigRow
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id").First(&parking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParkingNotFound
			}
			return err
		}

		parking.TotalSpaces = totalSpaces
		parking.OccupiedSpaces = occupiedSpaces
		return tx.Save(&parking).Error
	})
	if err != nil {
		return nil, err
	}
	return &parking, nil
}

package models

import "time"

// ParkingConfigRow is the singleton occupancy counter for the campus lot.
// Invariant: 0 <= OccupiedSpaces <= TotalSpaces, enforced by the services
// that mutate it (always inside the same transaction as the attendance rows
// the change belongs to).
type ParkingConfigRow struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	TotalSpaces    int       `json:"total_spaces" gorm:"not null"`
	OccupiedSpaces int       `json:"occupied_spaces" gorm:"not null;default:0"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName keeps the legacy table name.
func (ParkingConfigRow) TableName() string { return "parking_config" }

// Available returns the number of free spaces.
func (p *ParkingConfigRow) Available() int {
	return p.TotalSpaces - p.OccupiedSpaces
}

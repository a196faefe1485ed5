package models

import "time"

// Employee is a permanent staff member tracked by HR. EmployeeID is the
// external staff code printed on the campus badge.
type Employee struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"type:varchar(255);not null"`
	EmployeeID         string    `json:"employee_id" gorm:"type:varchar(100);uniqueIndex;not null"`
	Department         string    `json:"department" gorm:"type:varchar(255);not null"`
	Position           string    `json:"position" gorm:"type:varchar(255);not null"`
	VehiclePlateNumber string    `json:"vehicle_plate_number" gorm:"type:varchar(50)"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

package models

import "time"

// AttendanceRecord captures one arrival (and eventual departure) for a staff
// member or guest on a given date. A nil TimeOut means the person is still on
// campus; an open record with a plate number reserves one parking space.
type AttendanceRecord struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EmployeeID   *uint     `json:"employee_id" gorm:"index;constraint:OnDelete:CASCADE"` // nil for guests
	EmployeeName string    `json:"employee_name" gorm:"type:varchar(255);not null"`
	Date         string    `json:"date" gorm:"type:varchar(10);not null;index"` // YYYY-MM-DD
	TimeIn       string    `json:"time_in" gorm:"type:varchar(8);not null"`     // HH:MM:SS
	TimeOut      *string   `json:"time_out" gorm:"type:varchar(8)"`
	PlateNumber  *string   `json:"plate_number" gorm:"type:varchar(50)"`
	IsGuest      bool      `json:"is_guest" gorm:"default:false"`
	GuestPurpose string    `json:"guest_purpose" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"created_at"`

	Employee *Employee `json:"-" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

// Open reports whether the record still counts as on-campus.
func (r *AttendanceRecord) Open() bool {
	return r.TimeOut == nil
}

// Plated reports whether a vehicle was recorded for this visit.
func (r *AttendanceRecord) Plated() bool {
	return r.PlateNumber != nil && *r.PlateNumber != ""
}

package models

import (
	"time"
)

// Roles accepted by the API. The legacy frontend used "superadmin" as an
// alias for admin; NormalizeRole folds it back into the closed set.
const (
	RoleAdmin    = "admin"
	RoleSecurity = "security"
	RoleHR       = "hr"
	RoleDean     = "dean"
)

// NormalizeRole maps legacy aliases onto the canonical role names.
func NormalizeRole(role string) string {
	if role == "superadmin" {
		return RoleAdmin
	}
	return role
}

// ValidRole reports whether role (after normalization) is a known role.
func ValidRole(role string) bool {
	switch NormalizeRole(role) {
	case RoleAdmin, RoleSecurity, RoleHR, RoleDean:
		return true
	}
	return false
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         string    `json:"role" gorm:"type:varchar(50);not null"` // admin, security, hr, dean
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"token" gorm:"type:varchar(500);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// AuditLog is an append-only trail of mutating operations. Writes are
// best-effort and never block the operation they describe.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Username  string    `json:"username" gorm:"type:varchar(255)"`
	Role      string    `json:"role" gorm:"type:varchar(50)"`
	Action    string    `json:"action" gorm:"type:varchar(50);not null"` // login, logout, create, update, delete, entry, exit
	Details   string    `json:"details" gorm:"type:text"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(45)"`
	RequestID string    `json:"request_id" gorm:"type:varchar(36)"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

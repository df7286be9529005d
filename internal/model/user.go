package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies what a user account is for.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDriver     Role = "driver"
	RoleRider      Role = "rider"
	RoleDispatcher Role = "dispatcher"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDriver, RoleRider, RoleDispatcher:
		return true
	}
	return false
}

// User represents a rider, driver, dispatcher or admin account.
// Soft delete is modeled as Active=false so deactivated users stay
// visible to the is_active filter.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'rider';index"`
	FirstName    string    `json:"first_name" gorm:"size:150;not null"`
	LastName     string    `json:"last_name" gorm:"size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Active       bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName returns first and last name joined.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

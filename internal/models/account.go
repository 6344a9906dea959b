package models

import "time"

// Account represents a dashboard login: the seeded main admin, sub-admins
// created by the main admin, or ordinary users.
type Account struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         Role           `gorm:"size:32;index;not null" json:"role"`
	Permissions  PermissionList `gorm:"type:json" json:"permissions"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedByID  *uint          `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AccountPatch carries the fields that may change through ordinary edit
// paths. Email is immutable once created; nil fields are left untouched.
type AccountPatch struct {
	Name        *string
	IsActive    *bool
	Permissions *PermissionList
}

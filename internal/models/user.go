package models

import (
	"time"

	"gorm.io/gorm"
)

// Role gates access to admin-only routes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a client or administrator account
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	FullName  string    `json:"fullName" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      Role      `json:"role" gorm:"not null;default:'user'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an ID and the default role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = ensureID(u.ID)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

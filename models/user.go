package models

import (
	"time"
)

// User roles. Role is set at registration; only an admin can change it later.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// User represents a registered user (customer, store owner, or admin).
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string    `gorm:"not null" json:"phone"`
	Password      string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role          string    `gorm:"not null;default:'user'" json:"role"`
	FavoriteMeals []Meal    `gorm:"many2many:user_favorite_meals" json:"favoriteMeals,omitempty"`
	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole reports whether role is one of the recognized user roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

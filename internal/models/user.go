package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	DisplayName      string     `gorm:"not null" json:"display_name"`
	Currency         string     `gorm:"size:3;not null;default:'USD'" json:"currency"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Expenses      []Expense      `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	WishlistItems []WishlistItem `gorm:"foreignKey:UserID" json:"wishlist_items,omitempty"`
}

package models

import (
	"strings"
	"time"
)

// User is the identity record behind every session. The row is created at
// signup and refreshed on every authenticated request.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Email           *string   `json:"email" gorm:"uniqueIndex"`
	PasswordHash    string    `json:"-" gorm:"not null"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FullName joins the optional name parts for display and token claims.
func (u User) FullName() string {
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	return strings.Join(parts, " ")
}

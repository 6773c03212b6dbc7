package models

import (
	"strings"
	"time"
)

// User represents one account. The same record backs the customer site, the
// artisan portal and the admin console; Role decides which lanes accept it.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string    `json:"name" validate:"required,min=1,max=100"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Role       Role      `json:"role" gorm:"type:varchar(20)"`
	IsApproved bool      `json:"isApproved"`
	IsVerified bool      `json:"isVerified"`
	Phone      string    `json:"phone" gorm:"type:varchar(30)"`
	Address    string    `json:"address" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CanonicalEmail trims and lowercases an email so that addresses differing
// only in case or surrounding whitespace resolve to the same identity.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Public returns a copy safe to hand to clients. The password hash is
// already excluded from JSON, but clearing it here keeps projections safe
// even if a caller re-serializes the struct another way.
func (u User) Public() User {
	u.Password = ""
	return u
}

package models

import (
	"time"
)

// User is a registered account. Password holds the bcrypt hash and never leaves
// the server.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Password   string    `gorm:"not null" json:"-"`
	Email      string    `gorm:"size:254" json:"email"`
	FirstName  string    `gorm:"size:150" json:"first_name"`
	LastName   string    `gorm:"size:150" json:"last_name"`
	DateJoined time.Time `gorm:"autoCreateTime" json:"date_joined"`
}

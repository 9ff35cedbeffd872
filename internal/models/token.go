package models

import (
	"time"
)

// Token is the single persistent bearer credential issued to a user.
type Token struct {
	Key     string    `gorm:"primaryKey;size:40" json:"token"`
	UserID  uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Created time.Time `gorm:"autoCreateTime" json:"created"`
}

package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"-"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	AvatarURL string    `json:"avatarUrl"`
	IsAdmin   bool      `gorm:"default:false" json:"isAdmin"`
	Disabled  bool      `gorm:"default:false" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

package models

import (
	"time"
)

type Poll struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"userId"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text   string `gorm:"not null" json:"text"`
	// Soft flags: a closed poll rejects votes, a deleted poll disappears
	// from listings and can no longer be voted on or broadcast to.
	Closed    bool         `gorm:"default:false" json:"closed"`
	Deleted   bool         `gorm:"default:false;index" json:"-"`
	CreatedAt time.Time    `json:"createdAt"`
	Options   []PollOption `gorm:"foreignKey:PollID" json:"pollOptions"`
}

package models

// PollVote holds at most one row per (poll, user); a revote overwrites
// OptionID in place. The unique index backs the upsert in the vote service.
type PollVote struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	PollID   uint `gorm:"not null;uniqueIndex:idx_poll_vote_poll_user" json:"pollId"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_poll_vote_poll_user" json:"userId"`
	OptionID uint `gorm:"not null;index" json:"optionId"`
}

package models

import "time"

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// IdiomVote tracks a single user's vote on an idiom. The unique index keeps it to one row per (idiom, user).
type IdiomVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	IdiomID   int       `gorm:"not null;uniqueIndex:idx_idiom_user_vote" json:"idiomId"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_idiom_user_vote;index" json:"userId"`
	VoteType  VoteType  `gorm:"type:varchar(8);not null" json:"voteType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteResult is the canonical state returned after a cast.
type VoteResult struct {
	Upvotes   int64        `json:"upvotes"`
	Downvotes int64        `json:"downvotes"`
	UserVote  *VoteType    `json:"userVote"`
	Action    ToggleAction `json:"-"`
}

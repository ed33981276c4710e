package models

import "time"

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// TargetType names the entity a reaction belongs to.
type TargetType string

const (
	TargetComment TargetType = "comment"
	TargetReply   TargetType = "reply"
)

// Reaction is a like or dislike on a comment or reply. A user holds at most one reaction per
// target, so being in the likes set and the dislikes set at once is impossible.
type Reaction struct {
	ID         int          `gorm:"primaryKey" json:"id"`
	TargetType TargetType   `gorm:"type:varchar(16);not null;uniqueIndex:idx_reaction_target_user" json:"targetType"`
	TargetID   int          `gorm:"not null;uniqueIndex:idx_reaction_target_user" json:"targetId"`
	UserID     int          `gorm:"not null;uniqueIndex:idx_reaction_target_user;index" json:"userId"`
	Kind       ReactionKind `gorm:"type:varchar(8);not null" json:"kind"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// ReactionSummary is the like/dislike view of one target for one viewer.
type ReactionSummary struct {
	Likes    int64         `json:"likes"`
	Dislikes int64         `json:"dislikes"`
	UserVote *ReactionKind `json:"userVote"`
}

type ReactionResult struct {
	ReactionSummary
	Action ToggleAction `json:"-"`
}

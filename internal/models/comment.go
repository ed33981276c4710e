package models

import "time"

type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  int       `gorm:"not null;index" json:"authorId"`
	User      User      `gorm:"foreignKey:AuthorID" json:"-"`
	Author    Author    `gorm:"-" json:"author"`
	IdiomID   int       `gorm:"not null;index" json:"idiomId"`
	Replies   []Reply   `gorm:"foreignKey:CommentID" json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Reaction fields are not persisted; they are filled in at read time
	Likes    int64         `gorm:"-" json:"likes"`
	Dislikes int64         `gorm:"-" json:"dislikes"`
	UserVote *ReactionKind `gorm:"-" json:"userVote"`
}

type Reply struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  int       `gorm:"not null;index" json:"authorId"`
	User      User      `gorm:"foreignKey:AuthorID" json:"-"`
	Author    Author    `gorm:"-" json:"author"`
	CommentID int       `gorm:"not null;index" json:"commentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Likes    int64         `gorm:"-" json:"likes"`
	Dislikes int64         `gorm:"-" json:"dislikes"`
	UserVote *ReactionKind `gorm:"-" json:"userVote"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
	IdiomID int    `json:"idiomId" binding:"required"`
}

type CreateReplyRequest struct {
	Content   string `json:"content"`
	CommentID int    `json:"commentId" binding:"required"`
}

type UpdateContentRequest struct {
	Content string `json:"content"`
}

package models

import "time"

type Idiom struct {
	ID          int      `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"size:200;not null;index" json:"title"`
	Meaning     string   `gorm:"type:text;not null" json:"meaning"`
	Example     string   `gorm:"type:text;not null" json:"example"`
	Explanation string   `gorm:"type:text;not null" json:"explanation"`
	Etymology   string   `gorm:"type:text" json:"etymology"`
	Category    string   `gorm:"size:100;index" json:"category"`
	Difficulty  string   `gorm:"size:20;default:beginner" json:"difficulty"`
	Tags        []string `gorm:"serializer:json;type:text" json:"tags"`
	AuthorID    int      `gorm:"not null;index" json:"authorId"`
	User        User     `gorm:"foreignKey:AuthorID" json:"-"`
	Author      Author   `gorm:"-" json:"author"`

	Votes    []IdiomVote `gorm:"foreignKey:IdiomID" json:"-"`
	Comments []Comment   `gorm:"foreignKey:IdiomID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IdiomAggregate is the read model derived from an idiom's votes and comment tree.
type IdiomAggregate struct {
	Upvotes       int64     `json:"upvotes"`
	Downvotes     int64     `json:"downvotes"`
	UserVote      *VoteType `json:"userVote"`
	TotalComments int       `json:"totalComments"`
}

// IdiomView is an idiom as served to a particular viewer.
type IdiomView struct {
	Idiom
	IdiomAggregate
	IsFavourite     bool      `json:"isFavourite"`
	ExplanationHTML string    `json:"explanationHtml,omitempty"`
	Comments        []Comment `json:"comments,omitempty"`
}

type CreateIdiomRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Meaning     string   `json:"meaning" binding:"required"`
	Example     string   `json:"example" binding:"required"`
	Explanation string   `json:"explanation" binding:"required"`
	Etymology   string   `json:"etymology"`
	Category    string   `json:"category" binding:"max=100"`
	Difficulty  string   `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Tags        []string `json:"tags"`
}

// UpdateIdiomRequest lists the fields an author may change. The author itself is immutable.
type UpdateIdiomRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=200"`
	Meaning     *string  `json:"meaning"`
	Example     *string  `json:"example"`
	Explanation *string  `json:"explanation"`
	Etymology   *string  `json:"etymology"`
	Category    *string  `json:"category" binding:"omitempty,max=100"`
	Difficulty  *string  `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Tags        []string `json:"tags"`
}

type IdiomFilter struct {
	Category string
	Page     int
	Limit    int
}

// GeneratedIdiom is the metadata an AI provider suggests for a title.
type GeneratedIdiom struct {
	Category    string   `json:"category"`
	Meaning     string   `json:"meaning"`
	Example     string   `json:"example"`
	Explanation string   `json:"explanation"`
	Etymology   string   `json:"etymology"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
}

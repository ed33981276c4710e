package models

import "time"

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Role     string `gorm:"default:student" json:"role"`  // "student", "admin"
	Level    string `gorm:"default:beginner" json:"level"` // "beginner", "intermediate", "advanced"

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Author is the display projection of a user embedded in idioms, comments and replies.
type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

func (u User) AsAuthor() Author {
	return Author{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

// UserStats summarizes a user's activity for the profile page.
type UserStats struct {
	TotalIdioms    int64  `json:"totalIdioms"`
	TotalVotes     int64  `json:"totalVotes"`
	TotalComments  int64  `json:"totalComments"`
	FavouriteCount int64  `json:"favouriteCount"`
	Level          string `json:"level"`
}

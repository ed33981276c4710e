package models

import "time"

type Favourite struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_user_idiom_fav" json:"userId"`
	IdiomID   int       `gorm:"not null;uniqueIndex:idx_user_idiom_fav;index" json:"idiomId"`
	Idiom     Idiom     `gorm:"foreignKey:IdiomID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

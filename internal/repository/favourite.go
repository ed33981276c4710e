package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

type FavouriteRepository interface {
	// Add reports false when the idiom was already a favourite.
	Add(ctx context.Context, userID, idiomID int) (bool, error)
	Remove(ctx context.Context, userID, idiomID int) error
	IdiomIDs(ctx context.Context, userID int) ([]int, error)
	Contains(ctx context.Context, userID int, idiomIDs []int) (map[int]bool, error)
	CountByUser(ctx context.Context, userID int) (int64, error)
}

type favouriteRepository struct {
	db *gorm.DB
}

func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

// Add inserts the membership row in one statement; the (user_id, idiom_id) unique index
// turns a concurrent or repeated add into a no-op insert.
func (r *favouriteRepository) Add(ctx context.Context, userID, idiomID int) (bool, error) {
	fav := models.Favourite{UserID: userID, IdiomID: idiomID}
	res := r.db.WithContext(ctx).
		Omit("Idiom").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *favouriteRepository) Remove(ctx context.Context, userID, idiomID int) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND idiom_id = ?", userID, idiomID).
		Delete(&models.Favourite{}).Error
}

// IdiomIDs returns the user's favourites, most recently added first.
func (r *favouriteRepository) IdiomIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&models.Favourite{}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Pluck("idiom_id", &ids).Error
	return ids, err
}

func (r *favouriteRepository) Contains(ctx context.Context, userID int, idiomIDs []int) (map[int]bool, error) {
	out := make(map[int]bool, len(idiomIDs))
	if userID <= 0 || len(idiomIDs) == 0 {
		return out, nil
	}
	var ids []int
	err := r.db.WithContext(ctx).Model(&models.Favourite{}).
		Where("user_id = ? AND idiom_id IN ?", userID, idiomIDs).
		Pluck("idiom_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *favouriteRepository) CountByUser(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favourite{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

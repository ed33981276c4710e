// Package repository provides the gorm data access layer.
package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

type IdiomRepository interface {
	Create(ctx context.Context, idiom *models.Idiom) error
	GetByID(ctx context.Context, id int) (*models.Idiom, error)
	List(ctx context.Context, filter models.IdiomFilter) ([]models.Idiom, int64, error)
	ListByAuthor(ctx context.Context, authorID int) ([]models.Idiom, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Idiom, error)
	Update(ctx context.Context, idiom *models.Idiom, fields map[string]any) error
	Delete(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id int) (bool, error)
	AuthorStats(ctx context.Context, authorID int) (*models.UserStats, error)
}

type idiomRepository struct {
	db *gorm.DB
}

func NewIdiomRepository(db *gorm.DB) IdiomRepository {
	return &idiomRepository{db: db}
}

// withTree preloads everything the aggregate view needs.
func withTree(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Votes").Preload("Comments").Preload("Comments.Replies")
}

func (r *idiomRepository) Create(ctx context.Context, idiom *models.Idiom) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(idiom).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).First(&idiom.User, idiom.AuthorID).Error; err != nil {
		return err
	}
	resolveIdiomAuthor(idiom)
	return nil
}

func (r *idiomRepository) GetByID(ctx context.Context, id int) (*models.Idiom, error) {
	var idiom models.Idiom
	if err := withTree(r.db.WithContext(ctx)).First(&idiom, id).Error; err != nil {
		return nil, err
	}
	resolveIdiomAuthor(&idiom)
	return &idiom, nil
}

func (r *idiomRepository) List(ctx context.Context, filter models.IdiomFilter) ([]models.Idiom, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Idiom{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var idioms []models.Idiom
	if err := withTree(q).Order("created_at desc, id desc").Find(&idioms).Error; err != nil {
		return nil, 0, err
	}
	for i := range idioms {
		resolveIdiomAuthor(&idioms[i])
	}
	return idioms, total, nil
}

func (r *idiomRepository) ListByAuthor(ctx context.Context, authorID int) ([]models.Idiom, error) {
	var idioms []models.Idiom
	err := withTree(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order("created_at desc, id desc").
		Find(&idioms).Error
	if err != nil {
		return nil, err
	}
	for i := range idioms {
		resolveIdiomAuthor(&idioms[i])
	}
	return idioms, nil
}

func (r *idiomRepository) ListByIDs(ctx context.Context, ids []int) ([]models.Idiom, error) {
	if len(ids) == 0 {
		return []models.Idiom{}, nil
	}
	var idioms []models.Idiom
	if err := withTree(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&idioms).Error; err != nil {
		return nil, err
	}
	for i := range idioms {
		resolveIdiomAuthor(&idioms[i])
	}
	return idioms, nil
}

func (r *idiomRepository) Update(ctx context.Context, idiom *models.Idiom, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	// Map updates bypass the json serializer on Tags.
	if tags, ok := fields["tags"].([]string); ok {
		raw, err := json.Marshal(tags)
		if err != nil {
			return err
		}
		fields["tags"] = string(raw)
	}

	updated := models.Idiom{ID: idiom.ID}
	if err := r.db.WithContext(ctx).Model(&updated).Omit("author_id").Updates(fields).Error; err != nil {
		return err
	}
	idiom.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete removes the idiom together with its votes, favourites, comments, replies and reactions.
func (r *idiomRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("idiom_id = ?", id)
		replyIDs := tx.Model(&models.Reply{}).Select("id").Where("comment_id IN (?)", commentIDs)

		if err := deleteReactions(tx, models.TargetReply, replyIDs); err != nil {
			return err
		}
		if err := deleteReactions(tx, models.TargetComment, commentIDs); err != nil {
			return err
		}
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		for _, owned := range []any{&models.Comment{}, &models.IdiomVote{}, &models.Favourite{}} {
			if err := tx.Where("idiom_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Idiom{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *idiomRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Idiom{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *idiomRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Idiom{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// AuthorStats counts the author's idioms and the votes and comments those idioms received.
func (r *idiomRepository) AuthorStats(ctx context.Context, authorID int) (*models.UserStats, error) {
	db := r.db.WithContext(ctx)
	owned := db.Model(&models.Idiom{}).Select("id").Where("author_id = ?", authorID)

	var stats models.UserStats
	if err := db.Model(&models.Idiom{}).Where("author_id = ?", authorID).Count(&stats.TotalIdioms).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.IdiomVote{}).Where("idiom_id IN (?)", owned).Count(&stats.TotalVotes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Comment{}).Where("idiom_id IN (?)", owned).Count(&stats.TotalComments).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func resolveIdiomAuthor(i *models.Idiom) {
	i.Author = i.User.AsAuthor()
}

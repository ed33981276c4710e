package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id int) (*models.Reply, error)
	UpdateContent(ctx context.Context, reply *models.Reply, content string) error
	Delete(ctx context.Context, id int) error
}

type replyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(reply).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).First(&reply.User, reply.AuthorID).Error; err != nil {
		return err
	}
	reply.Author = reply.User.AsAuthor()
	return nil
}

func (r *replyRepository) GetByID(ctx context.Context, id int) (*models.Reply, error) {
	var reply models.Reply
	if err := r.db.WithContext(ctx).Preload("User").First(&reply, id).Error; err != nil {
		return nil, err
	}
	reply.Author = reply.User.AsAuthor()
	return &reply, nil
}

func (r *replyRepository) UpdateContent(ctx context.Context, reply *models.Reply, content string) error {
	updated := models.Reply{ID: reply.ID}
	if err := r.db.WithContext(ctx).Model(&updated).Update("content", content).Error; err != nil {
		return err
	}
	reply.Content = content
	reply.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete removes the reply and its reactions. The parent comment lists replies by
// foreign key, so nothing else references it.
func (r *replyRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteReactions(tx, models.TargetReply, []int{id}); err != nil {
			return err
		}
		res := tx.Delete(&models.Reply{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

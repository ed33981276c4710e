package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByIdiom(ctx context.Context, idiomID int) ([]models.Comment, error)
	UpdateContent(ctx context.Context, comment *models.Comment, content string) error
	Delete(ctx context.Context, id int) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User", "Replies").Create(comment).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).First(&comment.User, comment.AuthorID).Error; err != nil {
		return err
	}
	comment.Author = comment.User.AsAuthor()
	comment.Replies = []models.Reply{}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	comment.Author = comment.User.AsAuthor()
	return &comment, nil
}

// ListByIdiom returns comments newest first, each with its replies oldest first.
func (r *commentRepository) ListByIdiom(ctx context.Context, idiomID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		}).
		Preload("Replies.User").
		Where("idiom_id = ?", idiomID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	for i := range comments {
		c := &comments[i]
		c.Author = c.User.AsAuthor()
		if c.Replies == nil {
			c.Replies = []models.Reply{}
		}
		for j := range c.Replies {
			c.Replies[j].Author = c.Replies[j].User.AsAuthor()
		}
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, comment *models.Comment, content string) error {
	updated := models.Comment{ID: comment.ID}
	if err := r.db.WithContext(ctx).Model(&updated).Update("content", content).Error; err != nil {
		return err
	}
	comment.Content = content
	comment.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete removes the comment, its replies and every reaction attached to either.
func (r *commentRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		replyIDs := tx.Model(&models.Reply{}).Select("id").Where("comment_id = ?", id)

		if err := deleteReactions(tx, models.TargetReply, replyIDs); err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := deleteReactions(tx, models.TargetComment, []int{id}); err != nil {
			return err
		}

		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

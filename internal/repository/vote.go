package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

// VoteRepository is the idiom vote ledger. Cast is atomic per idiom.
type VoteRepository interface {
	Cast(ctx context.Context, idiomID, userID int, voteType models.VoteType) (*models.VoteResult, error)
	Tally(ctx context.Context, idiomID, userID int) (*models.VoteResult, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Cast applies the add/remove/switch rule for (idiomID, userID) inside one transaction. The idiom
// row is locked first so concurrent casts on the same idiom serialize, and the unique index on
// (idiom_id, user_id) backs the one vote per user rule. A missing idiom yields gorm.ErrRecordNotFound.
func (r *voteRepository) Cast(ctx context.Context, idiomID, userID int, voteType models.VoteType) (*models.VoteResult, error) {
	var result *models.VoteResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRow(tx, &models.Idiom{}, idiomID); err != nil {
			return err
		}

		var existing []models.IdiomVote
		if err := tx.Where("idiom_id = ? AND user_id = ?", idiomID, userID).Limit(1).Find(&existing).Error; err != nil {
			return err
		}

		var current *models.VoteType
		if len(existing) > 0 {
			current = &existing[0].VoteType
		}

		next, action := models.Toggle(current, voteType)
		switch action {
		case models.ToggleAdded:
			vote := models.IdiomVote{IdiomID: idiomID, UserID: userID, VoteType: *next}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		case models.ToggleRemoved:
			if err := tx.Delete(&models.IdiomVote{}, existing[0].ID).Error; err != nil {
				return err
			}
		case models.ToggleSwitched:
			if err := tx.Model(&existing[0]).Update("vote_type", *next).Error; err != nil {
				return err
			}
		}

		up, down, err := tallyVotes(tx, idiomID)
		if err != nil {
			return err
		}
		result = &models.VoteResult{Upvotes: up, Downvotes: down, UserVote: next, Action: action}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Tally reads the current counts and userID's vote without mutating anything.
func (r *voteRepository) Tally(ctx context.Context, idiomID, userID int) (*models.VoteResult, error) {
	db := r.db.WithContext(ctx)

	up, down, err := tallyVotes(db, idiomID)
	if err != nil {
		return nil, err
	}
	result := &models.VoteResult{Upvotes: up, Downvotes: down}

	if userID > 0 {
		var mine []models.IdiomVote
		if err := db.Where("idiom_id = ? AND user_id = ?", idiomID, userID).Limit(1).Find(&mine).Error; err != nil {
			return nil, err
		}
		if len(mine) > 0 {
			result.UserVote = &mine[0].VoteType
		}
	}
	return result, nil
}

// tallyVotes recounts votes from the ledger rows; counters are never stored.
func tallyVotes(db *gorm.DB, idiomID int) (up, down int64, err error) {
	var rows []struct {
		VoteType models.VoteType
		Total    int64
	}
	err = db.Model(&models.IdiomVote{}).
		Select("vote_type, count(*) AS total").
		Where("idiom_id = ?", idiomID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, row := range rows {
		switch row.VoteType {
		case models.VoteUp:
			up = row.Total
		case models.VoteDown:
			down = row.Total
		}
	}
	return up, down, nil
}

// lockRow takes a row lock on the entity that owns a ledger. SQLite ignores the
// locking clause; there a single writer connection gives the same ordering.
func lockRow(tx *gorm.DB, model any, id int) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(model, id).Error
}

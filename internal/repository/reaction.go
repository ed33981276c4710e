package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

// ReactionRepository is the like/dislike ledger shared by comments and replies.
type ReactionRepository interface {
	Toggle(ctx context.Context, target models.TargetType, targetID, userID int, kind models.ReactionKind) (*models.ReactionResult, error)
	Summaries(ctx context.Context, target models.TargetType, targetIDs []int, viewerID int) (map[int]models.ReactionSummary, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func targetModel(target models.TargetType) any {
	if target == models.TargetReply {
		return &models.Reply{}
	}
	return &models.Comment{}
}

// Toggle locks the comment or reply, then adds, removes or switches the caller's single reaction.
// Liking removes a dislike and the reverse, because both are the same row.
func (r *reactionRepository) Toggle(ctx context.Context, target models.TargetType, targetID, userID int, kind models.ReactionKind) (*models.ReactionResult, error) {
	var result *models.ReactionResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRow(tx, targetModel(target), targetID); err != nil {
			return err
		}

		var existing []models.Reaction
		err := tx.Where("target_type = ? AND target_id = ? AND user_id = ?", target, targetID, userID).
			Limit(1).Find(&existing).Error
		if err != nil {
			return err
		}

		var current *models.ReactionKind
		if len(existing) > 0 {
			current = &existing[0].Kind
		}

		next, action := models.Toggle(current, kind)
		switch action {
		case models.ToggleAdded:
			reaction := models.Reaction{TargetType: target, TargetID: targetID, UserID: userID, Kind: *next}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
		case models.ToggleRemoved:
			if err := tx.Delete(&models.Reaction{}, existing[0].ID).Error; err != nil {
				return err
			}
		case models.ToggleSwitched:
			if err := tx.Model(&existing[0]).Update("kind", *next).Error; err != nil {
				return err
			}
		}

		counts, err := countReactions(tx, target, []int{targetID})
		if err != nil {
			return err
		}
		summary := counts[targetID]
		summary.UserVote = next
		result = &models.ReactionResult{ReactionSummary: summary, Action: action}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Summaries returns like/dislike counts for each target plus viewerID's own reaction.
// Every requested id is present in the map. viewerID 0 means anonymous.
func (r *reactionRepository) Summaries(ctx context.Context, target models.TargetType, targetIDs []int, viewerID int) (map[int]models.ReactionSummary, error) {
	out := make(map[int]models.ReactionSummary, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}
	db := r.db.WithContext(ctx)

	counts, err := countReactions(db, target, targetIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range targetIDs {
		out[id] = counts[id]
	}

	if viewerID > 0 {
		var mine []models.Reaction
		err := db.Where("target_type = ? AND target_id IN ? AND user_id = ?", target, targetIDs, viewerID).
			Find(&mine).Error
		if err != nil {
			return nil, err
		}
		for _, reaction := range mine {
			s := out[reaction.TargetID]
			kind := reaction.Kind
			s.UserVote = &kind
			out[reaction.TargetID] = s
		}
	}
	return out, nil
}

func countReactions(db *gorm.DB, target models.TargetType, targetIDs []int) (map[int]models.ReactionSummary, error) {
	var rows []struct {
		TargetID int
		Kind     models.ReactionKind
		Total    int64
	}
	err := db.Model(&models.Reaction{}).
		Select("target_id, kind, count(*) AS total").
		Where("target_type = ? AND target_id IN ?", target, targetIDs).
		Group("target_id, kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int]models.ReactionSummary, len(targetIDs))
	for _, row := range rows {
		s := out[row.TargetID]
		switch row.Kind {
		case models.ReactionLike:
			s.Likes = row.Total
		case models.ReactionDislike:
			s.Dislikes = row.Total
		}
		out[row.TargetID] = s
	}
	return out, nil
}

func deleteReactions(tx *gorm.DB, target models.TargetType, targetIDs any) error {
	return tx.Where("target_type = ? AND target_id IN (?)", target, targetIDs).Delete(&models.Reaction{}).Error
}

package service

import (
	"context"
	"strings"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
	"github.com/emilythestrangee/idiom-hub/backend/internal/repository"
)

// LedgerService casts idiom votes and comment/reply reactions.
type LedgerService struct {
	votes     repository.VoteRepository
	reactions repository.ReactionRepository
}

type CastVoteInput struct {
	IdiomID  int
	UserID   int
	VoteType string
}

type ReactInput struct {
	Target   models.TargetType
	TargetID int
	UserID   int
	Kind     string
}

func NewLedgerService(votes repository.VoteRepository, reactions repository.ReactionRepository) *LedgerService {
	return &LedgerService{votes: votes, reactions: reactions}
}

func (s *LedgerService) CastVote(ctx context.Context, in CastVoteInput) (*models.VoteResult, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	if err := requireID(in.IdiomID, "idiom"); err != nil {
		return nil, err
	}
	voteType := models.VoteType(strings.ToLower(strings.TrimSpace(in.VoteType)))
	if !voteType.Valid() {
		return nil, models.NewValidationError("voteType must be 'up' or 'down'")
	}

	res, err := s.votes.Cast(ctx, in.IdiomID, in.UserID, voteType)
	if err != nil {
		return nil, mapRepoError(err, "Idiom", in.IdiomID)
	}

	observability.VotesTotal.WithLabelValues("idiom", string(res.Action)).Inc()
	observability.Logger.InfoContext(ctx, "idiom vote cast",
		"idiom_id", in.IdiomID,
		"vote_type", voteType,
		"action", res.Action,
		"upvotes", res.Upvotes,
		"downvotes", res.Downvotes,
	)
	return res, nil
}

func (s *LedgerService) React(ctx context.Context, in ReactInput) (*models.ReactionResult, error) {
	resource := "Comment"
	if in.Target == models.TargetReply {
		resource = "Reply"
	}

	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}
	if err := requireID(in.TargetID, strings.ToLower(resource)); err != nil {
		return nil, err
	}
	kind := models.ReactionKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	if !kind.Valid() {
		return nil, models.NewValidationError("voteType must be 'like' or 'dislike'")
	}

	res, err := s.reactions.Toggle(ctx, in.Target, in.TargetID, in.UserID, kind)
	if err != nil {
		return nil, mapRepoError(err, resource, in.TargetID)
	}

	observability.VotesTotal.WithLabelValues(string(in.Target), string(res.Action)).Inc()
	observability.Logger.InfoContext(ctx, "reaction toggled",
		"target", in.Target,
		"target_id", in.TargetID,
		"kind", kind,
		"action", res.Action,
	)
	return res, nil
}

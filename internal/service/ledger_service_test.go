package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
)

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	castFn  func(context.Context, int, int, models.VoteType) (*models.VoteResult, error)
	tallyFn func(context.Context, int, int) (*models.VoteResult, error)
}

func (s *voteRepoStub) Cast(ctx context.Context, idiomID, userID int, vt models.VoteType) (*models.VoteResult, error) {
	return s.castFn(ctx, idiomID, userID, vt)
}
func (s *voteRepoStub) Tally(ctx context.Context, idiomID, userID int) (*models.VoteResult, error) {
	return s.tallyFn(ctx, idiomID, userID)
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	toggleFn    func(context.Context, models.TargetType, int, int, models.ReactionKind) (*models.ReactionResult, error)
	summariesFn func(context.Context, models.TargetType, []int, int) (map[int]models.ReactionSummary, error)
}

func (s *reactionRepoStub) Toggle(ctx context.Context, target models.TargetType, id, userID int, kind models.ReactionKind) (*models.ReactionResult, error) {
	return s.toggleFn(ctx, target, id, userID, kind)
}
func (s *reactionRepoStub) Summaries(ctx context.Context, target models.TargetType, ids []int, viewerID int) (map[int]models.ReactionSummary, error) {
	return s.summariesFn(ctx, target, ids, viewerID)
}

func failingVoteRepo(t *testing.T) *voteRepoStub {
	return &voteRepoStub{
		castFn: func(context.Context, int, int, models.VoteType) (*models.VoteResult, error) {
			t.Fatal("repository must not be called")
			return nil, nil
		},
	}
}

func TestLedgerService_CastVote_Validation(t *testing.T) {
	t.Parallel()
	svc := NewLedgerService(failingVoteRepo(t), &reactionRepoStub{})
	ctx := context.Background()

	tests := []struct {
		name string
		in   CastVoteInput
		code string
	}{
		{"anonymous", CastVoteInput{IdiomID: 1, VoteType: "up"}, models.CodeUnauthorized},
		{"bad idiom id", CastVoteInput{UserID: 1, IdiomID: 0, VoteType: "up"}, models.CodeValidation},
		{"bad vote type", CastVoteInput{UserID: 1, IdiomID: 1, VoteType: "sideways"}, models.CodeValidation},
		{"empty vote type", CastVoteInput{UserID: 1, IdiomID: 1}, models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CastVote(ctx, tt.in)
			assertAppError(t, err, tt.code)
		})
	}
}

func TestLedgerService_CastVote_NormalizesAndPassesThrough(t *testing.T) {
	t.Parallel()
	up := models.VoteUp
	var gotType models.VoteType
	repo := &voteRepoStub{
		castFn: func(_ context.Context, idiomID, userID int, vt models.VoteType) (*models.VoteResult, error) {
			gotType = vt
			return &models.VoteResult{Upvotes: 1, UserVote: &up, Action: models.ToggleAdded}, nil
		},
	}
	svc := NewLedgerService(repo, &reactionRepoStub{})

	res, err := svc.CastVote(context.Background(), CastVoteInput{IdiomID: 3, UserID: 9, VoteType: " UP "})
	require.NoError(t, err)
	assert.Equal(t, models.VoteUp, gotType)
	assert.Equal(t, int64(1), res.Upvotes)
}

func TestLedgerService_CastVote_MapsRepositoryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"missing idiom", gorm.ErrRecordNotFound, models.CodeNotFound},
		{"lost race on unique index", gorm.ErrDuplicatedKey, models.CodeConflict},
		{"unexpected", errors.New("connection reset"), models.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &voteRepoStub{
				castFn: func(context.Context, int, int, models.VoteType) (*models.VoteResult, error) {
					return nil, tt.err
				},
			}
			svc := NewLedgerService(repo, &reactionRepoStub{})
			_, err := svc.CastVote(context.Background(), CastVoteInput{IdiomID: 1, UserID: 1, VoteType: "down"})
			assertAppError(t, err, tt.code)
		})
	}
}

func TestLedgerService_React(t *testing.T) {
	t.Parallel()
	var gotTarget models.TargetType
	repo := &reactionRepoStub{
		toggleFn: func(_ context.Context, target models.TargetType, id, userID int, kind models.ReactionKind) (*models.ReactionResult, error) {
			gotTarget = target
			if id == 404 {
				return nil, gorm.ErrRecordNotFound
			}
			k := kind
			return &models.ReactionResult{
				ReactionSummary: models.ReactionSummary{Likes: 1, UserVote: &k},
				Action:          models.ToggleAdded,
			}, nil
		},
	}
	svc := NewLedgerService(&voteRepoStub{}, repo)
	ctx := context.Background()

	res, err := svc.React(ctx, ReactInput{Target: models.TargetReply, TargetID: 5, UserID: 2, Kind: "like"})
	require.NoError(t, err)
	assert.Equal(t, models.TargetReply, gotTarget)
	require.NotNil(t, res.UserVote)
	assert.Equal(t, models.ReactionLike, *res.UserVote)

	_, err = svc.React(ctx, ReactInput{Target: models.TargetComment, TargetID: 404, UserID: 2, Kind: "dislike"})
	assertAppError(t, err, models.CodeNotFound)
	assert.Contains(t, err.Error(), "Comment")

	_, err = svc.React(ctx, ReactInput{Target: models.TargetComment, TargetID: 1, UserID: 2, Kind: "up"})
	assertAppError(t, err, models.CodeValidation)

	_, err = svc.React(ctx, ReactInput{Target: models.TargetComment, TargetID: 1, Kind: "like"})
	assertAppError(t, err, models.CodeUnauthorized)
}

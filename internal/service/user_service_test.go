package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/testutil"
)

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	user, err := s.users.Register(ctx, models.RegisterRequest{Username: "learner", Email: "Learner@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)

	_, err = s.users.Register(ctx, models.RegisterRequest{Username: "learner", Email: "other@example.com", Password: "secret1"})
	assertAppError(t, err, models.CodeConflict)
	_, err = s.users.Register(ctx, models.RegisterRequest{Username: "other", Email: "learner@example.com", Password: "secret1"})
	assertAppError(t, err, models.CodeConflict)

	got, err := s.users.Authenticate(ctx, models.LoginRequest{Email: "learner@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.users.Authenticate(ctx, models.LoginRequest{Email: "learner@example.com", Password: "wrong"})
	assertAppError(t, err, models.CodeUnauthorized)
	_, err = s.users.Authenticate(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestUserService_UpdateProfileValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s.db, "alice")
	testutil.CreateUser(t, s.db, "bobby")

	str := func(v string) *string { return &v }

	tests := []struct {
		name string
		req  models.UpdateProfileRequest
		code string
	}{
		{"short username", models.UpdateProfileRequest{Username: str("ab")}, models.CodeValidation},
		{"long full name", models.UpdateProfileRequest{FullName: str(strings.Repeat("n", 51))}, models.CodeValidation},
		{"long bio", models.UpdateProfileRequest{Bio: str(strings.Repeat("b", 501))}, models.CodeValidation},
		{"taken username", models.UpdateProfileRequest{Username: str("bobby")}, models.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.users.UpdateProfile(ctx, u.ID, tt.req)
			assertAppError(t, err, tt.code)
		})
	}

	updated, err := s.users.UpdateProfile(ctx, u.ID, models.UpdateProfileRequest{
		Username: str("alice2"),
		Bio:      str("  I like idioms  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "I like idioms", updated.Bio)

	same, err := s.users.UpdateProfile(ctx, u.ID, models.UpdateProfileRequest{Username: str("alice2")})
	require.NoError(t, err)
	assert.Equal(t, "alice2", same.Username)
}

func TestUserService_Stats(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, s.db, "author")
	fan := testutil.CreateUser(t, s.db, "fan")
	idiom := testutil.CreateIdiom(t, s.db, author.ID, "Cost an arm and a leg")

	_, err := s.ledger.CastVote(ctx, CastVoteInput{IdiomID: idiom.ID, UserID: fan.ID, VoteType: "up"})
	require.NoError(t, err)
	_, err = s.threads.CreateComment(ctx, CreateCommentInput{UserID: fan.ID, IdiomID: idiom.ID, Content: "wow"})
	require.NoError(t, err)
	require.NoError(t, s.favourites.Add(ctx, author.ID, idiom.ID))

	stats, err := s.users.Stats(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalIdioms)
	assert.Equal(t, int64(1), stats.TotalVotes)
	assert.Equal(t, int64(1), stats.TotalComments)
	assert.Equal(t, int64(1), stats.FavouriteCount)
	assert.Equal(t, "beginner", stats.Level)

	_, err = s.users.Stats(ctx, 999)
	assertAppError(t, err, models.CodeNotFound)
}

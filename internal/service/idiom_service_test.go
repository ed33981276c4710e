package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/idiom-hub/backend/internal/cache"
	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/testutil"
)

func createRequest(title, category string) models.CreateIdiomRequest {
	return models.CreateIdiomRequest{
		Title:       title,
		Meaning:     "meaning",
		Example:     "example",
		Explanation: "**bold** explanation",
		Category:    category,
		Tags:        []string{" a ", "a", "", "b"},
	}
}

func TestIdiomService_Create(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s.db, "author")

	view, err := s.idioms.Create(ctx, u.ID, createRequest("Hold your horses", "patience"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, view.Tags)
	assert.Equal(t, "beginner", view.Difficulty)
	assert.Equal(t, "author", view.Author.Username)

	_, err = s.idioms.Create(ctx, u.ID, models.CreateIdiomRequest{Title: "  "})
	assertAppError(t, err, models.CodeValidation)

	_, err = s.idioms.Create(ctx, 0, createRequest("x", "y"))
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestIdiomService_GetBuildsDetail(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, s.db, "author")
	viewer := testutil.CreateUser(t, s.db, "viewer")

	created, err := s.idioms.Create(ctx, author.ID, createRequest("Hold your horses", "patience"))
	require.NoError(t, err)
	id := created.ID

	base := time.Now().UTC()
	c1 := testutil.CreateComment(t, s.db, id, viewer.ID, "one", base)
	testutil.CreateComment(t, s.db, id, viewer.ID, "two", base.Add(time.Second))
	for i := 0; i < 3; i++ {
		testutil.CreateReply(t, s.db, c1.ID, author.ID, "reply", base.Add(time.Duration(i+2)*time.Second))
	}

	_, err = s.ledger.CastVote(ctx, CastVoteInput{IdiomID: id, UserID: viewer.ID, VoteType: "down"})
	require.NoError(t, err)
	require.NoError(t, s.favourites.Add(ctx, viewer.ID, id))

	view, err := s.idioms.Get(ctx, id, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, view.TotalComments)
	assert.Equal(t, int64(1), view.Downvotes)
	require.NotNil(t, view.UserVote)
	assert.Equal(t, models.VoteDown, *view.UserVote)
	assert.True(t, view.IsFavourite)
	assert.Contains(t, view.ExplanationHTML, "<strong>bold</strong>")
	assert.Len(t, view.Comments, 2)

	anon, err := s.idioms.Get(ctx, id, 0)
	require.NoError(t, err)
	assert.Nil(t, anon.UserVote)
	assert.False(t, anon.IsFavourite)

	_, err = s.idioms.Get(ctx, 999, 0)
	assertAppError(t, err, models.CodeNotFound)
}

func TestIdiomService_UpdateAndDeleteAreAuthorOnly(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, s.db, "author")
	other := testutil.CreateUser(t, s.db, "other")

	created, err := s.idioms.Create(ctx, author.ID, createRequest("Hold your horses", "patience"))
	require.NoError(t, err)

	title := "Hold your tongue"
	_, err = s.idioms.Update(ctx, other.ID, created.ID, models.UpdateIdiomRequest{Title: &title})
	assertAppError(t, err, models.CodeForbidden)
	assertAppError(t, s.idioms.Delete(ctx, other.ID, created.ID), models.CodeForbidden)

	empty := " "
	_, err = s.idioms.Update(ctx, author.ID, created.ID, models.UpdateIdiomRequest{Meaning: &empty})
	assertAppError(t, err, models.CodeValidation)

	updated, err := s.idioms.Update(ctx, author.ID, created.ID, models.UpdateIdiomRequest{Title: &title, Tags: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, []string{"x"}, updated.Tags)
	assert.Equal(t, author.ID, updated.AuthorID)

	require.NoError(t, s.idioms.Delete(ctx, author.ID, created.ID))
	_, err = s.idioms.Get(ctx, created.ID, 0)
	assertAppError(t, err, models.CodeNotFound)
}

func TestIdiomService_CategoriesAreCachedAndInvalidated(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s.db, "author")

	_, err := s.idioms.Create(ctx, u.ID, createRequest("A", "animals"))
	require.NoError(t, err)

	cats, err := s.idioms.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals"}, cats)
	assert.True(t, s.redis.Exists(cache.CategoriesKey))

	// A row written behind the service's back is not visible until invalidation.
	testutil.CreateIdiom(t, s.db, u.ID, "Sneaky")
	s.db.Model(&models.Idiom{}).Where("title = ?", "Sneaky").Update("category", "zzz")
	cats, err = s.idioms.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals"}, cats)

	_, err = s.idioms.Create(ctx, u.ID, createRequest("B", "food"))
	require.NoError(t, err)
	assert.False(t, s.redis.Exists(cache.CategoriesKey))

	cats, err = s.idioms.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals", "food", "zzz"}, cats)
}

func TestIdiomService_ListAndMine(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "alice")
	b := testutil.CreateUser(t, s.db, "bobby")

	for _, req := range []struct {
		user int
		cat  string
	}{{a.ID, "x"}, {a.ID, "y"}, {b.ID, "x"}} {
		_, err := s.idioms.Create(ctx, req.user, createRequest("t", req.cat))
		require.NoError(t, err)
	}

	list, total, err := s.idioms.List(ctx, models.IdiomFilter{Category: "x"}, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	mine, err := s.idioms.ListMine(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].AuthorID)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/testutil"
)

func TestIdiomRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIdiomRepository(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "author")

	idiom := &models.Idiom{
		Title:       "Under the weather",
		Meaning:     "Feeling ill",
		Example:     "I'm a bit under the weather today.",
		Explanation: "Sailors *below deck*.",
		Category:    "health",
		Tags:        []string{"health", "nautical"},
		AuthorID:    u.ID,
	}
	require.NoError(t, repo.Create(ctx, idiom))
	assert.Equal(t, "author", idiom.Author.Username)

	got, err := repo.GetByID(ctx, idiom.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"health", "nautical"}, got.Tags)
	assert.Equal(t, u.ID, got.Author.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIdiomRepository_ListFiltersAndPages(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIdiomRepository(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "author")

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, cat := range []string{"animals", "food", "animals", "animals"} {
		idiom := models.Idiom{
			Title: "idiom", Meaning: "m", Example: "e", Explanation: "x",
			Category: cat, AuthorID: u.ID, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&idiom).Error)
	}

	all, total, err := repo.List(ctx, models.IdiomFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, all, 4)
	assert.True(t, all[0].CreatedAt.After(all[3].CreatedAt))

	page, total, err := repo.List(ctx, models.IdiomFilter{Category: "animals", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "animals", page[0].Category)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals", "food"}, cats)
}

func TestIdiomRepository_UpdateKeepsAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIdiomRepository(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	idiom := testutil.CreateIdiom(t, db, u.ID, "Old title")

	require.NoError(t, repo.Update(ctx, &idiom, map[string]any{"title": "New title", "author_id": other.ID}))

	got, err := repo.GetByID(ctx, idiom.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, u.ID, got.AuthorID)
}

func TestIdiomRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	idioms := NewIdiomRepository(db)
	votes := NewVoteRepository(db)
	reactions := NewReactionRepository(db)
	favourites := NewFavouriteRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "author")
	doomed := testutil.CreateIdiom(t, db, u.ID, "Doomed")
	kept := testutil.CreateIdiom(t, db, u.ID, "Kept")
	now := time.Now().UTC()

	c := testutil.CreateComment(t, db, doomed.ID, u.ID, "c", now)
	r := testutil.CreateReply(t, db, c.ID, u.ID, "r", now)
	keptComment := testutil.CreateComment(t, db, kept.ID, u.ID, "kc", now)

	_, err := votes.Cast(ctx, doomed.ID, u.ID, models.VoteUp)
	require.NoError(t, err)
	_, err = votes.Cast(ctx, kept.ID, u.ID, models.VoteUp)
	require.NoError(t, err)
	_, err = reactions.Toggle(ctx, models.TargetComment, c.ID, u.ID, models.ReactionLike)
	require.NoError(t, err)
	_, err = reactions.Toggle(ctx, models.TargetReply, r.ID, u.ID, models.ReactionLike)
	require.NoError(t, err)
	_, err = reactions.Toggle(ctx, models.TargetComment, keptComment.ID, u.ID, models.ReactionLike)
	require.NoError(t, err)
	_, err = favourites.Add(ctx, u.ID, doomed.ID)
	require.NoError(t, err)

	require.NoError(t, idioms.Delete(ctx, doomed.ID))

	exists, err := idioms.Exists(ctx, doomed.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&models.Comment{}))
	assert.Equal(t, int64(0), count(&models.Reply{}))
	assert.Equal(t, int64(1), count(&models.Reaction{}))
	assert.Equal(t, int64(1), count(&models.IdiomVote{}))
	assert.Equal(t, int64(0), count(&models.Favourite{}))

	assert.ErrorIs(t, idioms.Delete(ctx, doomed.ID), gorm.ErrRecordNotFound)
}

func TestIdiomRepository_AuthorStats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIdiomRepository(db)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	fan := testutil.CreateUser(t, db, "fan")
	mine := testutil.CreateIdiom(t, db, author.ID, "Mine")
	theirs := testutil.CreateIdiom(t, db, fan.ID, "Theirs")
	now := time.Now().UTC()

	testutil.CreateComment(t, db, mine.ID, fan.ID, "nice", now)
	testutil.CreateComment(t, db, mine.ID, fan.ID, "again", now)
	testutil.CreateComment(t, db, theirs.ID, author.ID, "elsewhere", now)
	_, err := votes.Cast(ctx, mine.ID, fan.ID, models.VoteUp)
	require.NoError(t, err)
	_, err = votes.Cast(ctx, theirs.ID, author.ID, models.VoteUp)
	require.NoError(t, err)

	stats, err := repo.AuthorStats(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalIdioms)
	assert.Equal(t, int64(1), stats.TotalVotes)
	assert.Equal(t, int64(2), stats.TotalComments)
}

func TestIdiomRepository_UpdateTags(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewIdiomRepository(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "author")
	idiom := testutil.CreateIdiom(t, db, u.ID, "Tagged")

	require.NoError(t, repo.Update(ctx, &idiom, map[string]any{"tags": []string{"a", "b"}}))

	got, err := repo.GetByID(ctx, idiom.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
}

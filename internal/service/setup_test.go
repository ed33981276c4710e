package service

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/emilythestrangee/idiom-hub/backend/internal/cache"
	"github.com/emilythestrangee/idiom-hub/backend/internal/repository"
	"github.com/emilythestrangee/idiom-hub/backend/internal/testutil"
)

type services struct {
	db         *gorm.DB
	redis      *miniredis.Miniredis
	ledger     *LedgerService
	threads    *ThreadService
	favourites *FavouriteService
	idioms     *IdiomService
	users      *UserService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewDB(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	idiomRepo := repository.NewIdiomRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	favouriteRepo := repository.NewFavouriteRepository(db)
	threads := NewThreadService(
		repository.NewCommentRepository(db),
		repository.NewReplyRepository(db),
		reactionRepo,
		idiomRepo,
	)

	return &services{
		db:         db,
		redis:      mr,
		ledger:     NewLedgerService(repository.NewVoteRepository(db), reactionRepo),
		threads:    threads,
		favourites: NewFavouriteService(favouriteRepo, idiomRepo),
		idioms:     NewIdiomService(idiomRepo, favouriteRepo, threads, cache.New(rdb)),
		users:      NewUserService(repository.NewUserRepository(db), idiomRepo, favouriteRepo),
	}
}

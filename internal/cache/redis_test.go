package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb)
}

func TestRemember_CachesLoaderResult(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"animals", "food"}, nil
	}

	first, err := Remember(ctx, c, CategoriesKey, time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, c, CategoriesKey, time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, []string{"animals", "food"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(CategoriesKey))

	mr.FastForward(2 * time.Minute)
	_, err = Remember(ctx, c, CategoriesKey, time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRemember_DeleteInvalidates(t *testing.T) {
	_, c := setupRedis(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := Remember(ctx, c, "k", time.Minute, load)
	assert.Equal(t, 1, v)
	require.NoError(t, c.Delete(ctx, "k"))
	v, _ = Remember(ctx, c, "k", time.Minute, load)
	assert.Equal(t, 2, v)
}

func TestRemember_LoaderErrorIsNotCached(t *testing.T) {
	mr, c := setupRedis(t)
	boom := errors.New("boom")

	_, err := Remember(context.Background(), c, "k", time.Minute, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestCache_NilClientAlwaysMisses(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	require.NoError(t, c.SetJSON(ctx, "k", 1, time.Minute))

	var out int
	hit, err := c.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Remember(ctx, c, "k", time.Minute, func(context.Context) (int, error) {
			calls++
			return 5, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestConnect_EmptyAddrDisablesCache(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), ""))
}

func TestConnect_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := Connect(context.Background(), "redis://"+mr.Addr())
	require.NotNil(t, rdb)
	_ = rdb.Close()
}

// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
)

const CategoriesKey = "idioms:categories"

// Connect dials Redis at addr (host:port or redis:// URL). An empty addr or a failed ping
// returns a nil client; callers run without a cache in that case.
func Connect(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			slog.Warn("invalid REDIS_URL, continuing without cache", "error", err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, continuing without cache", "error", err)
		_ = client.Close()
		return nil
	}
	slog.Info("redis connected")
	return client
}

// Cache is a JSON cache over Redis. A Cache with a nil client is valid and always misses.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON loads key into dest. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Remember returns the cached value for key, or calls load and caches its result.
// Cache errors are logged and never fail the read.
func Remember[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.GetJSON(ctx, key, &cached)
	switch {
	case err != nil:
		observability.CacheRequestsTotal.WithLabelValues(key, "error").Inc()
		observability.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	case hit:
		observability.CacheRequestsTotal.WithLabelValues(key, "hit").Inc()
		return cached, nil
	default:
		observability.CacheRequestsTotal.WithLabelValues(key, "miss").Inc()
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.SetJSON(ctx, key, value, ttl); err != nil {
		observability.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return value, nil
}

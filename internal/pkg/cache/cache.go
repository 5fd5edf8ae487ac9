package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a best-effort redis cache for the public tracking views. All
// methods are nil-receiver safe so callers can wire it unconditionally;
// failures are logged and otherwise ignored.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(addr, password string, ttl time.Duration, log *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
		log: log,
	}
}

func trackKey(code string) string   { return "tracking:track:" + code }
func summaryKey(code string) string { return "tracking:summary:" + code }

func (c *Cache) GetTrack(ctx context.Context, code string, dst any) bool {
	return c.get(ctx, trackKey(code), dst)
}

func (c *Cache) SetTrack(ctx context.Context, code string, v any) {
	c.set(ctx, trackKey(code), v)
}

func (c *Cache) GetSummary(ctx context.Context, code string, dst any) bool {
	return c.get(ctx, summaryKey(code), dst)
}

func (c *Cache) SetSummary(ctx context.Context, code string, v any) {
	c.set(ctx, summaryKey(code), v)
}

// InvalidateProject drops every cached public view of a project. Called by
// mutating services after a successful write.
func (c *Cache) InvalidateProject(ctx context.Context, code string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, trackKey(code), summaryKey(code)).Err(); err != nil {
		c.log.Warn("cache invalidate failed", zap.String("project_code", code), zap.Error(err))
	}
}

func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

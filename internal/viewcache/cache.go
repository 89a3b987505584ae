// Package viewcache is a best-effort redis cache for the default approved
// graph view. A nil *Cache is valid and makes every operation a pass-through,
// so redis stays optional.
package viewcache

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cortexintel/cortex/internal/domain"
	"github.com/cortexintel/cortex/internal/platform/envutil"
	"github.com/cortexintel/cortex/internal/platform/logger"
)

const graphKey = "cortex:graphview:default"

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewFromEnv returns nil when REDIS_ADDR is unset; callers treat that as "no
// cache".
func NewFromEnv(log *logger.Logger) *Cache {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envutil.Int("REDIS_DB", 0),
	})
	ttl := time.Duration(envutil.Int("GRAPH_CACHE_TTL_SECONDS", 60)) * time.Second
	log.Info("graph view cache enabled", "addr", addr, "ttl", ttl.String())
	return &Cache{rdb: rdb, ttl: ttl, log: log.With("component", "viewcache")}
}

func (c *Cache) GetGraph(ctx context.Context) (*domain.GraphResult, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, graphKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", "error", err)
		}
		return nil, false
	}
	var result domain.GraphResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.log.Warn("cache payload malformed, dropping", "error", err)
		_ = c.rdb.Del(ctx, graphKey).Err()
		return nil, false
	}
	return &result, true
}

func (c *Cache) SetGraph(ctx context.Context, result *domain.GraphResult) {
	if c == nil || result == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, graphKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "error", err)
	}
}

// Invalidate drops the cached view. Called after every review decision so the
// dashboard never shows a stale approval state past one miss.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, graphKey).Err(); err != nil {
		c.log.Warn("cache invalidate failed", "error", err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

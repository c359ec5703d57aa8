package token

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisCache shares minted tokens across service replicas. One key per
// app, overwritten on each mint.
type redisCache struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

// NewRedisCache returns a Redis-backed Cache.
func NewRedisCache(rdb *redis.Client, log *zap.SugaredLogger) Cache {
	return &redisCache{rdb: rdb, log: log}
}

func cacheKey(appID string) string { return "widget:token:" + appID }

func (c *redisCache) Get(ctx context.Context, appID string) (Entry, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(appID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnw("token cache get", "app", appID, "err", err)
		}
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.log.Warnw("token cache decode", "app", appID, "err", err)
		return Entry{}, false
	}
	return e, true
}

func (c *redisCache) Put(ctx context.Context, appID string, e Entry) {
	raw, err := json.Marshal(e)
	if err != nil {
		c.log.Warnw("token cache encode", "app", appID, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(appID), raw, 0).Err(); err != nil {
		c.log.Warnw("token cache put", "app", appID, "err", err)
	}
}

package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisCacheForTest(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cli.Close() })
	return NewRedisCache(cli, zap.NewNop().Sugar()), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCacheForTest(t)

	_, ok := c.Get(ctx, "T1")
	assert.False(t, ok)

	e := Entry{Token: "tok-1", ExpireAt: time.Now().Add(time.Minute).UTC()}
	c.Put(ctx, "T1", e)

	got, ok := c.Get(ctx, "T1")
	require.True(t, ok)
	assert.Equal(t, e.Token, got.Token)
	assert.True(t, e.ExpireAt.Equal(got.ExpireAt))
}

func TestRedisCacheMalformedValueIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCacheForTest(t)
	require.NoError(t, mr.Set(cacheKey("T1"), "{not json"))

	_, ok := c.Get(ctx, "T1")
	assert.False(t, ok)
}

func TestRedisCacheSharedAcrossReplicas(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cliA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cliB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cliA.Close(); _ = cliB.Close() })

	a := NewRedisCache(cliA, zap.NewNop().Sugar())
	b := NewRedisCache(cliB, zap.NewNop().Sugar())

	e := Entry{Token: "tok-shared", ExpireAt: time.Now().Add(time.Minute).UTC()}
	a.Put(ctx, "T1", e)
	got, ok := b.Get(ctx, "T1")
	require.True(t, ok)
	assert.Equal(t, "tok-shared", got.Token)
}

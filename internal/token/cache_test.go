package token

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok := c.Get(ctx, "T1")
	assert.False(t, ok)

	e1 := Entry{Token: "tok-1", ExpireAt: time.Now().Add(time.Minute)}
	c.Put(ctx, "T1", e1)
	got, ok := c.Get(ctx, "T1")
	require.True(t, ok)
	assert.Equal(t, e1, got)

	// Entries are keyed per app.
	_, ok = c.Get(ctx, "T2")
	assert.False(t, ok)

	// Put overwrites unconditionally.
	e2 := Entry{Token: "tok-2", ExpireAt: time.Now().Add(2 * time.Minute)}
	c.Put(ctx, "T1", e2)
	got, ok = c.Get(ctx, "T1")
	require.True(t, ok)
	assert.Equal(t, e2, got)
}

func TestMemoryCacheReturnsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	stale := Entry{Token: "tok-old", ExpireAt: time.Now().Add(-time.Minute)}
	c.Put(ctx, "T1", stale)

	got, ok := c.Get(ctx, "T1")
	require.True(t, ok, "expiry is the caller's responsibility, not the cache's")
	assert.Equal(t, stale, got)
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put(ctx, "T1", Entry{Token: "tok", ExpireAt: time.Now()})
			c.Get(ctx, "T1")
		}()
	}
	wg.Wait()
	_, ok := c.Get(ctx, "T1")
	assert.True(t, ok)
}

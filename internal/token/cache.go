package token

import (
	"context"
	"sync"
	"time"
)

// Entry is one cached grant: the signed token and its expiry.
type Entry struct {
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expireAt"`
}

// Cache keeps the most recently minted token per app. Get returns the
// entry even when expired; expiry is the caller's responsibility to
// check. Put overwrites unconditionally; stale entries are superseded,
// never purged.
type Cache interface {
	Get(ctx context.Context, appID string) (Entry, bool)
	Put(ctx context.Context, appID string, e Entry)
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryCache returns an in-process Cache keyed by app id.
func NewMemoryCache() Cache {
	return &memoryCache{entries: map[string]Entry{}}
}

func (c *memoryCache) Get(_ context.Context, appID string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[appID]
	return e, ok
}

func (c *memoryCache) Put(_ context.Context, appID string, e Entry) {
	c.mu.Lock()
	c.entries[appID] = e
	c.mu.Unlock()
}

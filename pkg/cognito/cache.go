package cognito

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type keySetFetcher interface {
	Fetch(ctx context.Context, jwksURL string) (*KeySet, error)
}

// KeySetCache holds fetched key sets by URL. It is safe for concurrent use
// and may be shared by verifiers of different user pools.
type KeySetCache struct {
	fetcher         keySetFetcher
	ttl             time.Duration
	refreshInterval time.Duration
	now             func() time.Time

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	set       *KeySet
	fetchedAt time.Time
}

// NewKeySetCache creates a cache that reuses a key set for ttl. A kid missing
// from a cached set triggers a refetch once the set is older than
// refreshInterval.
func NewKeySetCache(fetcher *Fetcher, ttl, refreshInterval time.Duration) *KeySetCache {
	return newKeySetCache(fetcher, ttl, refreshInterval)
}

func newKeySetCache(fetcher keySetFetcher, ttl, refreshInterval time.Duration) *KeySetCache {
	return &KeySetCache{
		fetcher:         fetcher,
		ttl:             ttl,
		refreshInterval: refreshInterval,
		now:             time.Now,
		entries:         make(map[string]*cacheEntry),
	}
}

// Get returns the key set at jwksURL that should be searched for kid.
func (c *KeySetCache) Get(ctx context.Context, jwksURL, kid string) (*KeySet, error) {
	c.mu.RLock()
	entry := c.entries[jwksURL]
	c.mu.RUnlock()

	if entry != nil {
		age := c.now().Sub(entry.fetchedAt)
		if age < c.ttl {
			if _, ok := entry.set.Lookup(kid); ok || age < c.refreshInterval {
				return entry.set, nil
			}
		}
	}
	return c.refresh(ctx, jwksURL)
}

// refresh fetches jwksURL, sharing one request between concurrent callers.
func (c *KeySetCache) refresh(ctx context.Context, jwksURL string) (*KeySet, error) {
	ch := c.group.DoChan(jwksURL, func() (any, error) {
		// The fetch outlives a cancelled caller so others waiting on it still get a result.
		set, err := c.fetcher.Fetch(context.WithoutCancel(ctx), jwksURL)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[jwksURL] = &cacheEntry{set: set, fetchedAt: c.now()}
		c.mu.Unlock()
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeySet), nil
	}
}

// Invalidate drops the cached key set for jwksURL.
func (c *KeySetCache) Invalidate(jwksURL string) {
	c.mu.Lock()
	delete(c.entries, jwksURL)
	c.mu.Unlock()
}

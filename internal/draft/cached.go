package draft

import (
	"context"
	"time"

	"pestle/internal/cachemanager"
)

const (
	cacheKey = "draft"
	cacheTTL = 10 * time.Minute
)

// loaded pairs a snapshot with its presence flag so a "no draft yet" result
// is cacheable too.
type loaded struct {
	snapshot Snapshot
	ok       bool
}

// CachedStore wraps a Store with a read-through cache so repeated loads skip
// the database. Saves and clears keep the cache coherent; Invalidate drops
// the cached value when the backing file changes externally.
type CachedStore struct {
	inner Store
	cache *cachemanager.ReadThroughCache[string, loaded, struct{}]
}

// NewCachedStore wraps inner. skipCache disables caching entirely, which
// keeps the wrapper in place for tests that want every load to hit the
// database.
func NewCachedStore(inner Store, skipCache bool) *CachedStore {
	manager := cachemanager.NewInMemoryCacheManager[string, loaded](
		"draft", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval,
	)
	return &CachedStore{
		inner: inner,
		cache: cachemanager.NewReadThroughCache[string, loaded, struct{}](
			manager,
			func(ctx context.Context, _ struct{}) (loaded, error) {
				s, ok, err := inner.Load()
				return loaded{snapshot: s, ok: ok}, err
			},
			skipCache,
		),
	}
}

var _ Store = (*CachedStore)(nil)

// Save writes through to the inner store and refreshes the cache on success.
func (c *CachedStore) Save(s Snapshot) error {
	if err := c.inner.Save(s); err != nil {
		return err
	}
	_ = c.cache.Invalidate(context.Background(), cacheKey)
	return nil
}

// Load returns the cached snapshot, falling back to the inner store.
func (c *CachedStore) Load() (Snapshot, bool, error) {
	v, err := c.cache.Get(context.Background(), cacheKey, struct{}{}, cacheTTL)
	if err != nil {
		return Snapshot{}, false, err
	}
	return v.snapshot, v.ok, nil
}

// Clear removes the stored snapshot and the cached copy.
func (c *CachedStore) Clear() error {
	if err := c.inner.Clear(); err != nil {
		return err
	}
	_ = c.cache.Invalidate(context.Background(), cacheKey)
	return nil
}

// Invalidate drops the cached snapshot so the next Load re-reads the store.
// The file watcher calls this when the database changes on disk.
func (c *CachedStore) Invalidate() {
	_ = c.cache.Invalidate(context.Background(), cacheKey)
}

package catalog

import (
	"context"
	"log"
	"time"

	"storefront-orders/internal/storage"
)

// CachedSource serves snapshots from the shared store and falls back to the
// wrapped source on a miss.
type CachedSource struct {
	next  Source
	store storage.Store
	ttl   time.Duration
}

func NewCachedSource(next Source, s storage.Store, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, store: s, ttl: ttl}
}

var _ Source = (*CachedSource)(nil)

func (c *CachedSource) Snapshot(ctx context.Context, store string) (*Snapshot, error) {
	key := storage.CatalogKey(store)

	var cached Snapshot
	found, err := storage.LoadJSON(ctx, c.store, key, &cached)
	if err != nil {
		log.Printf("catalog: cache read failed for %s: %v", store, err)
	}
	if found {
		return &cached, nil
	}

	s, err := c.next.Snapshot(ctx, store)
	if err != nil {
		return nil, err
	}
	if err := storage.SaveJSON(ctx, c.store, key, s, c.ttl); err != nil {
		log.Printf("catalog: cache write failed for %s: %v", store, err)
	}
	return s, nil
}

// Warmup loads the given stores into the cache, logging failures.
func (c *CachedSource) Warmup(ctx context.Context, stores []string) {
	for _, name := range stores {
		if _, err := c.Snapshot(ctx, name); err != nil {
			log.Printf("Failed to warm up catalog for %s: %v", name, err)
		}
	}
}

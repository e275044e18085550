package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: key not found")

const (
	KeyOrders       = "orders"
	KeyPendingOrder = "pendingOrder"
)

func StatsKey(store string) string {
	return "store_" + store + "_stats"
}

func CatalogKey(store string) string {
	return "catalog_" + store
}

// Store is a key-value store shared by every execution context.
// Each write replaces the full value of a single key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Take returns the value and removes the key in one atomic step.
	Take(ctx context.Context, key string) ([]byte, error)
}

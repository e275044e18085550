package storage

import (
	"context"
	"log"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/infra/bus"
)

// PatternChanged is published after every successful write through a Notifying store.
const PatternChanged = "storage.changed"

// Notifying publishes a change notification after each write to the wrapped store.
// Delivery is best effort: a failed publish is logged and the write still stands.
type Notifying struct {
	Store
	pub bus.Publisher
}

func NewNotifying(s Store, pub bus.Publisher) *Notifying {
	return &Notifying{Store: s, pub: pub}
}

var _ Store = (*Notifying)(nil)

func (n *Notifying) notify(ctx context.Context, key string, present bool) {
	if err := n.pub.Publish(ctx, PatternChanged, domain.StorageChange{Key: key, Present: present}); err != nil {
		log.Printf("storage: change notification for %q failed: %v", key, err)
	}
}

func (n *Notifying) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := n.Store.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	n.notify(ctx, key, true)
	return nil
}

func (n *Notifying) Delete(ctx context.Context, key string) error {
	if err := n.Store.Delete(ctx, key); err != nil {
		return err
	}
	n.notify(ctx, key, false)
	return nil
}

func (n *Notifying) Take(ctx context.Context, key string) ([]byte, error) {
	v, err := n.Store.Take(ctx, key)
	if err != nil {
		return nil, err
	}
	n.notify(ctx, key, false)
	return v, nil
}

// Package mailbox implements the single-slot order handoff between the
// storefront and the dashboard. Post writes the payload under
// storage.KeyPendingOrder; the write's change notification wakes the
// dashboard, which drains the slot.
package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/infra/bus"
	"storefront-orders/internal/storage"
)

type Mailbox struct {
	store storage.Store
	sub   bus.Subscriber
}

// New returns a Mailbox. sub may be nil for write-only (storefront) use.
func New(s storage.Store, sub bus.Subscriber) *Mailbox {
	return &Mailbox{store: s, sub: sub}
}

// Post stores the payload and returns without waiting for any reader.
// A payload still sitting in the slot is overwritten.
func (m *Mailbox) Post(ctx context.Context, p domain.PendingOrder) error {
	if err := storage.SaveJSON(ctx, m.store, storage.KeyPendingOrder, p, 0); err != nil {
		return fmt.Errorf("mailbox post: %w", err)
	}
	return nil
}

// Drain atomically takes the pending payload. ok is false when the slot is
// empty or held a malformed record, which is discarded.
func (m *Mailbox) Drain(ctx context.Context) (p domain.PendingOrder, ok bool, err error) {
	raw, err := m.store.Take(ctx, storage.KeyPendingOrder)
	if errors.Is(err, storage.ErrNotFound) {
		return p, false, nil
	}
	if err != nil {
		return p, false, fmt.Errorf("mailbox drain: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Printf("mailbox: discarding malformed pending order: %v", err)
		return domain.PendingOrder{}, false, nil
	}
	return p, true, nil
}

// Peek reads the pending payload without removing it.
func (m *Mailbox) Peek(ctx context.Context) (p domain.PendingOrder, ok bool, err error) {
	raw, err := m.store.Get(ctx, storage.KeyPendingOrder)
	if errors.Is(err, storage.ErrNotFound) {
		return p, false, nil
	}
	if err != nil {
		return p, false, fmt.Errorf("mailbox peek: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.PendingOrder{}, false, fmt.Errorf("mailbox peek: malformed payload: %w", err)
	}
	return p, true, nil
}

// Watch drains once immediately, so a payload written before the watcher
// existed is not lost, then drains on every notification that the slot was
// filled. fn receives each drained payload. The returned cancel stops watching.
func (m *Mailbox) Watch(ctx context.Context, fn func(context.Context, domain.PendingOrder)) (func(), error) {
	if m.sub == nil {
		return nil, errors.New("mailbox: no subscriber configured")
	}

	drainOnce := func(ctx context.Context) {
		p, ok, err := m.Drain(ctx)
		if err != nil {
			log.Printf("mailbox: %v", err)
			return
		}
		if ok {
			fn(ctx, p)
		}
	}

	cancel, err := m.sub.Subscribe(storage.PatternChanged, func(ctx context.Context, msg bus.Message) {
		var change domain.StorageChange
		if err := msg.Decode(&change); err != nil {
			log.Printf("mailbox: bad change notification %s: %v", msg.ID, err)
			return
		}
		if change.Key != storage.KeyPendingOrder || !change.Present {
			return
		}
		drainOnce(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("mailbox watch: %w", err)
	}

	drainOnce(ctx)
	return cancel, nil
}

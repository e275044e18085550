// Package stats maintains per-store rolling counters under store_<name>_stats.
package stats

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"
	"storefront-orders/internal/storage"
)

type Aggregator struct {
	mu    sync.Mutex
	store storage.Store
	repo  repository.OrderRepository
	now   func() time.Time
}

func NewAggregator(s storage.Store, repo repository.OrderRepository) *Aggregator {
	return &Aggregator{store: s, repo: repo, now: time.Now}
}

// Get returns the persisted stats, or zero stats when none exist yet.
func (a *Aggregator) Get(ctx context.Context, storeID string) (domain.StoreStats, error) {
	var st domain.StoreStats
	if _, err := storage.LoadJSON(ctx, a.store, storage.StatsKey(storeID), &st); err != nil {
		return domain.StoreStats{}, err
	}
	return st, nil
}

// Recompute recounts the store's orders and records today's (UTC) volume.
// Calling it again on the same day replaces that day's entry.
func (a *Aggregator) Recompute(ctx context.Context, storeID string) (domain.StoreStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, err := a.Get(ctx, storeID)
	if err != nil {
		return st, err
	}
	orders, err := a.repo.FindByStore(ctx, storeID)
	if err != nil {
		return st, fmt.Errorf("recompute %s: %w", storeID, err)
	}

	st.TotalOrders, st.PendingOrders = 0, 0
	for _, o := range orders {
		switch o.Status {
		case domain.StatusProcessed:
			st.TotalOrders++
		case domain.StatusPending:
			st.PendingOrders++
		}
	}

	today := a.now().UTC().Format(domain.HistoryDateLayout)
	st.OrderHistory = record(st.OrderHistory, today, st.TotalOrders+st.PendingOrders)

	if err := storage.SaveJSON(ctx, a.store, storage.StatsKey(storeID), st, 0); err != nil {
		return st, err
	}
	return st, nil
}

// IncrementViews adds exactly one view.
func (a *Aggregator) IncrementViews(ctx context.Context, storeID string) (domain.StoreStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, err := a.Get(ctx, storeID)
	if err != nil {
		return st, err
	}
	st.TotalViews++
	if err := storage.SaveJSON(ctx, a.store, storage.StatsKey(storeID), st, 0); err != nil {
		return st, err
	}
	return st, nil
}

func record(history []domain.HistoryEntry, date string, orders int) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(history)+1)
	replaced := false
	for _, e := range history {
		if e.Date == date {
			if replaced {
				continue
			}
			e.Orders = orders
			replaced = true
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, domain.HistoryEntry{Date: date, Orders: orders})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if len(out) > domain.HistoryLimit {
		out = out[len(out)-domain.HistoryLimit:]
	}
	return out
}

package kv

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"
	"storefront-orders/internal/storage"
)

// orderRepo keeps the whole ledger as one JSON array under storage.KeyOrders.
// Every write rewrites the full array. Writes from one process are serialized;
// writes from different processes may still lose updates to each other.
type orderRepo struct {
	mu    sync.Mutex
	store storage.Store
}

func NewOrderRepository(s storage.Store) repository.OrderRepository {
	return &orderRepo{store: s}
}

func (r *orderRepo) load(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if _, err := storage.LoadJSON(ctx, r.store, storage.KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return err
	}
	orders = append(orders, *order)
	return storage.SaveJSON(ctx, r.store, storage.KeyOrders, orders, 0)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.load(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			found = true
		}
	}
	if !found {
		return fmt.Errorf("order %s: %w", id, storage.ErrNotFound)
	}
	return storage.SaveJSON(ctx, r.store, storage.KeyOrders, orders, 0)
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			o := orders[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.load(ctx)
}

func (r *orderRepo) FindByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := orders[:0:0]
	for _, o := range orders {
		if o.StoreID == storeID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *orderRepo) StoreIDs(ctx context.Context) ([]string, error) {
	orders, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, o := range orders {
		if _, ok := seen[o.StoreID]; ok {
			continue
		}
		seen[o.StoreID] = struct{}{}
		ids = append(ids, o.StoreID)
	}
	sort.Strings(ids)
	return ids, nil
}

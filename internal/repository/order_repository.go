package repository

import (
	"context"

	"storefront-orders/internal/domain"
)

// OrderRepository is the Order Ledger. FindByID returns (nil, nil) when the
// order does not exist.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByStore(ctx context.Context, storeID string) ([]domain.Order, error)
	StoreIDs(ctx context.Context) ([]string, error)
}

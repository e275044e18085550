package mocks

import (
	"context"

	"storefront-orders/internal/catalog"
	"storefront-orders/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockCatalogSource struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockMailbox struct {
	mock.Mock
}

type MockDispatchNotifier struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, pattern string, data any) error {
	args := m.Called(ctx, pattern, data)
	return args.Error(0)
}

func (m *MockCatalogSource) Snapshot(ctx context.Context, store string) (*catalog.Snapshot, error) {
	args := m.Called(ctx, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Snapshot), args.Error(1)
}

func (m *MockMailbox) Post(ctx context.Context, p domain.PendingOrder) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockDispatchNotifier) NotifyDispatched(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) StoreIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

package services

import (
	"time"

	"storefront-orders/internal/domain"

	"github.com/shopspring/decimal"
)

func CreateMockOrder(id string, storeID string, customer string, status domain.OrderStatus, date time.Time) *domain.Order {
	items := []domain.OrderItem{
		{ProductID: TestProductID, Name: TestProductName, Quantity: 2, UnitPrice: decimal.NewFromInt(TestProductPrice)},
	}
	return &domain.Order{
		ID:       id,
		StoreID:  storeID,
		Customer: domain.Customer{Name: customer, Phone: "0600000000"},
		Items:    items,
		Total:    domain.SumItems(items),
		Date:     date,
		Status:   status,
	}
}

func CreateMockPending(storeID string) domain.PendingOrder {
	items := []domain.OrderItem{
		{ProductID: TestProductID, Name: TestProductName, Quantity: 2, UnitPrice: decimal.NewFromInt(TestProductPrice)},
		{ProductID: "p2", Name: "Plate", Quantity: 1, UnitPrice: decimal.NewFromInt(500)},
	}
	return domain.PendingOrder{
		StoreID:  storeID,
		Items:    items,
		Total:    domain.SumItems(items),
		Customer: domain.Customer{Name: "Sara", Phone: "0611"},
		Delivery: "pickup",
		Payment:  "cash",
	}
}

const (
	TestStoreID      = "Acme"
	TestOrderID      = "0b6a4e7e-2f1c-4c55-9a55-3f0e6c1d2a10"
	TestProductID    = "p1"
	TestProductName  = "Test Product"
	TestProductPrice = int64(1000)
)

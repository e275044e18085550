package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingOrder is the Mailbox payload written by the storefront at checkout.
type PendingOrder struct {
	StoreID  string          `json:"storeId"`
	Items    []OrderItem     `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Customer Customer        `json:"customerInfo"`
	Delivery string          `json:"deliveryMethod"`
	Payment  string          `json:"paymentMethod"`
	PlacedAt time.Time       `json:"placedAt"`
}

type OrderIngestedEvent struct {
	OrderID string          `json:"orderId"`
	StoreID string          `json:"storeId"`
	Total   decimal.Decimal `json:"total"`
	Date    time.Time       `json:"date"`
}

type OrderDispatchedEvent struct {
	OrderID      string    `json:"orderId"`
	StoreID      string    `json:"storeId"`
	DispatchedAt time.Time `json:"dispatchedAt"`
}

// StorageChange is the payload of a change notification on a persisted key.
type StorageChange struct {
	Key     string `json:"key"`
	Present bool   `json:"present"`
}

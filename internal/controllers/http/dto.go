package http

import (
	"storefront-orders/internal/domain"

	"github.com/shopspring/decimal"
)

const SessionHeader = "X-Cart-Session"

type AddLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

type CheckoutResponse struct {
	StoreID string             `json:"storeId"`
	Items   []domain.OrderItem `json:"items"`
	Total   decimal.Decimal    `json:"total"`
}

type OrderListResponse struct {
	Orders []domain.Order `json:"orders"`
	Count  int            `json:"count"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "non_traité"
	StatusProcessed OrderStatus = "traité"
)

// StatusAll is accepted by listing filters and matches every status.
const StatusAll = "all"

func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusProcessed
}

type OrderItem struct {
	ProductID  string           `json:"productId"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
	FinalPrice *decimal.Decimal `json:"finalPrice,omitempty"`
	Size       string           `json:"size,omitempty"`
	Color      string           `json:"color,omitempty"`
}

// EffectivePrice is the per-unit price charged for the item.
func (i OrderItem) EffectivePrice() decimal.Decimal {
	if i.FinalPrice != nil {
		return *i.FinalPrice
	}
	return i.UnitPrice
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type Order struct {
	ID       string          `json:"id" gorm:"primaryKey;size:36"`
	StoreID  string          `json:"storeId" gorm:"size:128;not null;index"`
	Customer Customer        `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	Payment  string          `json:"payment" gorm:"size:64"`
	Delivery string          `json:"delivery" gorm:"size:64"`
	Items    []OrderItem     `json:"items" gorm:"serializer:json;type:json"`
	Total    decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	Date     time.Time       `json:"date" gorm:"not null;index"`
	Status   OrderStatus     `json:"status" gorm:"type:enum('non_traité','traité');default:'non_traité'"`
}

// SumItems computes Σ effectivePrice × quantity.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

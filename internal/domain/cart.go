package domain

import "github.com/shopspring/decimal"

type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount carries a precomputed FinalPrice which is authoritative whenever Type is not none.
type Discount struct {
	Type       DiscountType    `json:"type"`
	Value      decimal.Decimal `json:"value"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

func (d Discount) Active() bool {
	return d.Type != "" && d.Type != DiscountNone
}

type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Discount Discount        `json:"discount"`
	Sizes    []string        `json:"sizes,omitempty"`
	Colors   []string        `json:"colors,omitempty"`
	Stock    int             `json:"stock"`
}

type CartLine struct {
	ProductID     string          `json:"productId"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	SelectedSize  string          `json:"selectedSize,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	Discount      Discount        `json:"discount"`
}

// Item freezes the line into an immutable order item.
func (l CartLine) Item() OrderItem {
	it := OrderItem{
		ProductID: l.ProductID,
		Name:      l.Name,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Size:      l.SelectedSize,
		Color:     l.SelectedColor,
	}
	if l.Discount.Active() {
		fp := l.Discount.FinalPrice
		it.FinalPrice = &fp
	}
	return it
}

// Package cart accumulates a shopper's selected items and compiles them into
// a single Mailbox payload at checkout.
package cart

import (
	"errors"

	"storefront-orders/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrLineOutOfRange  = errors.New("cart line index out of range")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// AddLine merges into the line with the same product, size and color, or
// appends a new one.
func (c *Cart) AddLine(p domain.Product, quantity int, size, color string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.lines {
		l := &c.lines[i]
		if l.ProductID == p.ID && l.SelectedSize == size && l.SelectedColor == color {
			l.Quantity += quantity
			return nil
		}
	}
	c.lines = append(c.lines, domain.CartLine{
		ProductID:     p.ID,
		Name:          p.Name,
		Quantity:      quantity,
		UnitPrice:     p.Price,
		SelectedSize:  size,
		SelectedColor: color,
		Discount:      p.Discount,
	})
	return nil
}

func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

func (c *Cart) SetQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	c.lines[index].Quantity = quantity
	return nil
}

func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Items() []domain.OrderItem {
	items := make([]domain.OrderItem, len(c.lines))
	for i, l := range c.lines {
		items[i] = l.Item()
	}
	return items
}

// Total is recomputed from the current lines on every call.
func (c *Cart) Total() decimal.Decimal {
	return domain.SumItems(c.Items())
}

func (c *Cart) Reset() {
	c.lines = nil
}

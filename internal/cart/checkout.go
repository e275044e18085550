package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-orders/internal/catalog"
	"storefront-orders/internal/domain"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type CheckoutRequest struct {
	Customer domain.Customer `json:"customerInfo"`
	Delivery string          `json:"deliveryMethod"`
	Payment  string          `json:"paymentMethod"`
}

// Poster is the write side of the order Mailbox.
type Poster interface {
	Post(ctx context.Context, p domain.PendingOrder) error
}

type Compiler struct {
	mailbox Poster
	now     func() time.Time
}

func NewCompiler(mb Poster) *Compiler {
	return &Compiler{mailbox: mb, now: func() time.Time { return time.Now().UTC() }}
}

// Checkout validates the request against the store snapshot, posts the
// compiled order and clears the cart. Nothing changes when it fails.
func (cc *Compiler) Checkout(ctx context.Context, c *Cart, store *catalog.Snapshot, req CheckoutRequest) (domain.PendingOrder, error) {
	if err := validate(c, store, req); err != nil {
		return domain.PendingOrder{}, err
	}

	items := c.Items()
	p := domain.PendingOrder{
		StoreID:  store.Store.Name,
		Items:    items,
		Total:    domain.SumItems(items),
		Customer: normalize(req.Customer),
		Delivery: req.Delivery,
		Payment:  req.Payment,
		PlacedAt: cc.now(),
	}
	if err := cc.mailbox.Post(ctx, p); err != nil {
		return domain.PendingOrder{}, fmt.Errorf("checkout: %w", err)
	}
	c.Reset()
	return p, nil
}

func validate(c *Cart, store *catalog.Snapshot, req CheckoutRequest) error {
	if c.Len() == 0 {
		return &ValidationError{Field: "items", Message: "cart is empty"}
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(req.Customer.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "phone is required"}
	}
	delivery, ok := store.Delivery(req.Delivery)
	if !ok {
		return &ValidationError{Field: "deliveryMethod", Message: "unknown delivery method"}
	}
	if delivery.RequiresAddress && strings.TrimSpace(req.Customer.Address) == "" {
		return &ValidationError{Field: "address", Message: "address is required for " + delivery.Label}
	}
	if len(store.PaymentMethods) > 0 {
		if _, ok := store.Payment(req.Payment); !ok {
			return &ValidationError{Field: "paymentMethod", Message: "unknown payment method"}
		}
	}
	return nil
}

func normalize(c domain.Customer) domain.Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.Email = strings.TrimSpace(c.Email)
	return c
}

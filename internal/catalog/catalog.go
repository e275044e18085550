// Package catalog reads the read-only store bootstrap snapshot: store
// profile, payment and delivery methods, and the product catalog.
package catalog

import (
	"context"
	"errors"

	"storefront-orders/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrStoreNotFound = errors.New("store not found")

type StoreProfile struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Currency    string `json:"currency"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
}

type PaymentMethod struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type DeliveryMethod struct {
	ID              string          `json:"id"`
	Label           string          `json:"label"`
	RequiresAddress bool            `json:"requiresAddress"`
	Fee             decimal.Decimal `json:"fee"`
}

type Snapshot struct {
	Store           StoreProfile     `json:"store"`
	PaymentMethods  []PaymentMethod  `json:"paymentMethods"`
	DeliveryMethods []DeliveryMethod `json:"deliveryMethods"`
	Products        []domain.Product `json:"products"`
}

func (s *Snapshot) Delivery(id string) (DeliveryMethod, bool) {
	for _, d := range s.DeliveryMethods {
		if d.ID == id {
			return d, true
		}
	}
	return DeliveryMethod{}, false
}

func (s *Snapshot) Payment(id string) (PaymentMethod, bool) {
	for _, p := range s.PaymentMethods {
		if p.ID == id {
			return p, true
		}
	}
	return PaymentMethod{}, false
}

func (s *Snapshot) Product(id string) (domain.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

type Source interface {
	Snapshot(ctx context.Context, store string) (*Snapshot, error)
}

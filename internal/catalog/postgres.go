package catalog

import (
	"context"
	"errors"
	"fmt"

	"storefront-orders/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresSource reads the snapshot from the store master-data tables.
// Prices are stored as NUMERIC and scanned through text.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

var _ Source = (*PostgresSource)(nil)

func (p *PostgresSource) Snapshot(ctx context.Context, store string) (*Snapshot, error) {
	var s Snapshot
	var storeID int64
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, display_name, currency, COALESCE(phone, ''), COALESCE(address, '')
		FROM stores WHERE name = $1`,
		store,
	).Scan(&storeID, &s.Store.Name, &s.Store.DisplayName, &s.Store.Currency, &s.Store.Phone, &s.Store.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("load store %s: %w", store, err)
	}

	if s.PaymentMethods, err = p.payments(ctx, storeID); err != nil {
		return nil, err
	}
	if s.DeliveryMethods, err = p.deliveries(ctx, storeID); err != nil {
		return nil, err
	}
	if s.Products, err = p.products(ctx, storeID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresSource) payments(ctx context.Context, storeID int64) ([]PaymentMethod, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT code, label FROM payment_methods WHERE store_id = $1 ORDER BY position`, storeID)
	if err != nil {
		return nil, fmt.Errorf("load payment methods: %w", err)
	}
	defer rows.Close()
	var out []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.ID, &m.Label); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *PostgresSource) deliveries(ctx context.Context, storeID int64) ([]DeliveryMethod, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT code, label, requires_address, fee::text
		FROM delivery_methods WHERE store_id = $1 ORDER BY position`, storeID)
	if err != nil {
		return nil, fmt.Errorf("load delivery methods: %w", err)
	}
	defer rows.Close()
	var out []DeliveryMethod
	for rows.Next() {
		var m DeliveryMethod
		var fee string
		if err := rows.Scan(&m.ID, &m.Label, &m.RequiresAddress, &fee); err != nil {
			return nil, err
		}
		if m.Fee, err = decimal.NewFromString(fee); err != nil {
			return nil, fmt.Errorf("delivery method %s fee: %w", m.ID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *PostgresSource) products(ctx context.Context, storeID int64) ([]domain.Product, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id::text, name, price::text, discount_type, discount_value::text, discount_final_price::text,
		       COALESCE(sizes, '{}'), COALESCE(colors, '{}'), stock
		FROM products WHERE store_id = $1 ORDER BY id`, storeID)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	defer rows.Close()
	var out []domain.Product
	for rows.Next() {
		var r productRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Price, &r.DiscountType, &r.DiscountValue, &r.DiscountFinal,
			&r.Sizes, &r.Colors, &r.Stock); err != nil {
			return nil, err
		}
		pr, err := r.product()
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// productRow is one products row. The discount columns are NULL for
// products without a discount.
type productRow struct {
	ID, Name, Price string
	DiscountType    *string
	DiscountValue   *string
	DiscountFinal   *string
	Sizes, Colors   []string
	Stock           int
}

func (r productRow) product() (domain.Product, error) {
	pr := domain.Product{ID: r.ID, Name: r.Name, Sizes: r.Sizes, Colors: r.Colors, Stock: r.Stock}
	var err error
	if pr.Price, err = decimal.NewFromString(r.Price); err != nil {
		return pr, fmt.Errorf("product %s price: %w", r.ID, err)
	}

	pr.Discount.Type = domain.DiscountNone
	if r.DiscountType != nil && *r.DiscountType != "" {
		pr.Discount.Type = domain.DiscountType(*r.DiscountType)
	}
	switch pr.Discount.Type {
	case domain.DiscountNone:
		return pr, nil
	case domain.DiscountPercentage, domain.DiscountFixed:
	default:
		return pr, fmt.Errorf("product %s: unknown discount type %q", r.ID, pr.Discount.Type)
	}

	if r.DiscountFinal == nil {
		return pr, fmt.Errorf("product %s: %s discount without final price", r.ID, pr.Discount.Type)
	}
	if pr.Discount.FinalPrice, err = decimal.NewFromString(*r.DiscountFinal); err != nil {
		return pr, fmt.Errorf("product %s discount final price: %w", r.ID, err)
	}
	if pr.Discount.FinalPrice.IsNegative() {
		return pr, fmt.Errorf("product %s: negative discount final price %s", r.ID, pr.Discount.FinalPrice)
	}
	if r.DiscountValue != nil {
		if pr.Discount.Value, err = decimal.NewFromString(*r.DiscountValue); err != nil {
			return pr, fmt.Errorf("product %s discount value: %w", r.ID, err)
		}
	}
	return pr, nil
}

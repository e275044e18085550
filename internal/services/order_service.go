package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/infra/bus"
	"storefront-orders/internal/repository"
	"storefront-orders/internal/signal"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidOrder      = errors.New("invalid pending order")
)

const (
	PatternOrderIngested   = "order.ingested"
	PatternOrderDispatched = "order.dispatched"
)

// DispatchNotifier hands a processed order over to delivery.
type DispatchNotifier interface {
	NotifyDispatched(ctx context.Context, order *domain.Order) error
}

// Signals are the in-process notifications the dashboard reacts to.
type Signals struct {
	NewOrder       *signal.Signal[domain.Order]
	OrderConfirmed *signal.Signal[domain.Order]
	StoreView      *signal.Signal[string]
}

func NewSignals() *Signals {
	return &Signals{
		NewOrder:       signal.New[domain.Order]("newOrder"),
		OrderConfirmed: signal.New[domain.Order]("orderConfirmed"),
		StoreView:      signal.New[string]("storeView"),
	}
}

type ListFilter struct {
	StoreID string
	Search  string
	// Status is an OrderStatus value, domain.StatusAll or empty.
	Status string
	// From and To bound the order date inclusively; applied only when both are set.
	From *time.Time
	To   *time.Time
}

type OrderService struct {
	repo       repository.OrderRepository
	publisher  bus.Publisher
	dispatcher DispatchNotifier
	signals    *Signals
	now        func() time.Time
	newID      func() string
}

func NewOrderService(r repository.OrderRepository, pub bus.Publisher, d DispatchNotifier, s *Signals) *OrderService {
	if s == nil {
		s = NewSignals()
	}
	return &OrderService{
		repo:       r,
		publisher:  pub,
		dispatcher: d,
		signals:    s,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

func (u *OrderService) Signals() *Signals { return u.signals }

// Ingest stores a drained Mailbox payload as a new pending order. Payloads
// whose lines or total do not hold up are rejected with ErrInvalidOrder.
func (u *OrderService) Ingest(ctx context.Context, p domain.PendingOrder) (*domain.Order, error) {
	if err := checkPending(p); err != nil {
		return nil, err
	}

	id, err := u.freshID(ctx)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:       id,
		StoreID:  p.StoreID,
		Customer: p.Customer,
		Payment:  p.Payment,
		Delivery: p.Delivery,
		Items:    append([]domain.OrderItem(nil), p.Items...),
		Total:    p.Total,
		Date:     u.now(),
		Status:   domain.StatusPending,
	}

	if err := u.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	log.Printf("Order %s ingested for store %q (total %s)", order.ID, order.StoreID, order.Total)

	u.publish(ctx, PatternOrderIngested, domain.OrderIngestedEvent{
		OrderID: order.ID,
		StoreID: order.StoreID,
		Total:   order.Total,
		Date:    order.Date,
	})
	u.signals.NewOrder.Emit(ctx, *order)

	return order, nil
}

func checkPending(p domain.PendingOrder) error {
	if len(p.Items) == 0 {
		return ErrEmptyOrder
	}
	for i, it := range p.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity %d", ErrInvalidOrder, i, it.Quantity)
		}
		if it.UnitPrice.IsNegative() || it.EffectivePrice().IsNegative() {
			return fmt.Errorf("%w: item %d has a negative price", ErrInvalidOrder, i)
		}
	}
	if sum := domain.SumItems(p.Items); !sum.Equal(p.Total) {
		return fmt.Errorf("%w: total %s does not match items %s", ErrInvalidOrder, p.Total, sum)
	}
	return nil
}

// HandlePending adapts Ingest to the Mailbox watcher callback.
func (u *OrderService) HandlePending(ctx context.Context, p domain.PendingOrder) {
	if _, err := u.Ingest(ctx, p); err != nil {
		log.Printf("Discarding pending order for store %q: %v", p.StoreID, err)
	}
}

func (u *OrderService) freshID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id := u.newID()
		existing, err := u.repo.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return id, nil
		}
		log.Printf("Order id %s already in ledger, regenerating", id)
	}
	return "", errors.New("could not allocate a unique order id")
}

func (u *OrderService) GetOrderById(ctx context.Context, id string) (*domain.Order, error) {
	o, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderService) ListFiltered(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	var (
		orders []domain.Order
		err    error
	)
	if f.StoreID != "" {
		orders, err = u.repo.FindByStore(ctx, f.StoreID)
	} else {
		orders, err = u.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if search != "" &&
			!strings.Contains(strings.ToLower(o.Customer.Name), search) &&
			!strings.Contains(strings.ToLower(o.ID), search) {
			continue
		}
		if f.Status != "" && f.Status != domain.StatusAll && string(o.Status) != f.Status {
			continue
		}
		if f.From != nil && f.To != nil && (o.Date.Before(*f.From) || o.Date.After(*f.To)) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// ConfirmProcessed moves a pending order to processed. Confirming an order
// that is already processed is a no-op.
func (u *OrderService) ConfirmProcessed(ctx context.Context, id string) (*domain.Order, error) {
	o, err := u.GetOrderById(ctx, id)
	if err != nil {
		return nil, err
	}
	switch o.Status {
	case domain.StatusProcessed:
		return o, nil
	case domain.StatusPending:
	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, domain.StatusProcessed)
	}

	if err := u.repo.UpdateStatus(ctx, id, domain.StatusProcessed); err != nil {
		return nil, err
	}
	o.Status = domain.StatusProcessed
	log.Printf("Order %s confirmed", id)

	u.signals.OrderConfirmed.Emit(ctx, *o)
	return o, nil
}

// MarkDispatched signals the delivery hand-off of a processed order. It does
// not change the stored status.
func (u *OrderService) MarkDispatched(ctx context.Context, id string) (*domain.Order, error) {
	o, err := u.GetOrderById(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.StatusProcessed {
		return nil, fmt.Errorf("%w: order %s is %s, expected %s", ErrInvalidTransition, id, o.Status, domain.StatusProcessed)
	}

	u.publish(ctx, PatternOrderDispatched, domain.OrderDispatchedEvent{
		OrderID:      o.ID,
		StoreID:      o.StoreID,
		DispatchedAt: u.now(),
	})
	if u.dispatcher != nil {
		if err := u.dispatcher.NotifyDispatched(ctx, o); err != nil {
			return nil, fmt.Errorf("delivery hand-off for %s: %w", id, err)
		}
	}
	return o, nil
}

func (u *OrderService) publish(ctx context.Context, pattern string, evt any) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, pattern, evt); err != nil {
		log.Printf("Failed to publish %s event: %v", pattern, err)
	}
}

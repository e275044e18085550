// Package app wires the storefront and dashboard execution contexts.
package app

import (
	"context"
	"fmt"
	"log"

	"storefront-orders/internal/cart"
	"storefront-orders/internal/catalog"
	httpctrl "storefront-orders/internal/controllers/http"
	"storefront-orders/internal/domain"
	"storefront-orders/internal/infra/bus"
	"storefront-orders/internal/mailbox"
	"storefront-orders/internal/repository"
	"storefront-orders/internal/repository/kv"
	"storefront-orders/internal/services"
	"storefront-orders/internal/stats"
	"storefront-orders/internal/storage"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	// Store is the raw shared store; change notifications are added here.
	Store   storage.Store
	Bus     bus.Bus
	Catalog catalog.Source
	// Ledger defaults to the key-value ledger over Store.
	Ledger     repository.OrderRepository
	Dispatcher services.DispatchNotifier
}

func (d Deps) ledger(s storage.Store) repository.OrderRepository {
	if d.Ledger != nil {
		return d.Ledger
	}
	return kv.NewOrderRepository(s)
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	return r
}

type Storefront struct {
	Engine  *gin.Engine
	Signals *services.Signals
	Stats   *stats.Aggregator
}

func NewStorefront(d Deps) *Storefront {
	store := storage.NewNotifying(d.Store, d.Bus)
	agg := stats.NewAggregator(store, d.ledger(store))
	signals := services.NewSignals()
	signals.StoreView.Connect(func(ctx context.Context, name string) {
		if _, err := agg.IncrementViews(ctx, name); err != nil {
			log.Printf("Failed to record view for %q: %v", name, err)
		}
	})

	compiler := cart.NewCompiler(mailbox.New(store, nil))
	h := httpctrl.NewStorefrontHandler(d.Catalog, cart.NewSessions(), compiler, signals)

	r := newEngine()
	h.RegisterRoutes(r)
	return &Storefront{Engine: r, Signals: signals, Stats: agg}
}

// Admin is the order side of the dashboard without its HTTP surface or
// Mailbox watcher.
type Admin struct {
	Ledger  repository.OrderRepository
	Service *services.OrderService
	Stats   *stats.Aggregator
	Mailbox *mailbox.Mailbox
}

func NewAdmin(d Deps) *Admin {
	store := storage.NewNotifying(d.Store, d.Bus)
	ledger := d.ledger(store)
	agg := stats.NewAggregator(store, ledger)

	signals := services.NewSignals()
	recompute := func(ctx context.Context, o domain.Order) {
		if _, err := agg.Recompute(ctx, o.StoreID); err != nil {
			log.Printf("Failed to recompute stats for %q: %v", o.StoreID, err)
		}
	}
	signals.NewOrder.Connect(recompute)
	signals.OrderConfirmed.Connect(recompute)

	return &Admin{
		Ledger:  ledger,
		Service: services.NewOrderService(ledger, d.Bus, d.Dispatcher, signals),
		Stats:   agg,
		Mailbox: mailbox.New(store, d.Bus),
	}
}

type Dashboard struct {
	*Admin
	Engine *gin.Engine
	stop   func()
}

// NewDashboard builds the dashboard context and starts watching the Mailbox.
// Any order already waiting in the Mailbox is ingested before it returns.
func NewDashboard(ctx context.Context, d Deps) (*Dashboard, error) {
	a := NewAdmin(d)
	stop, err := a.Mailbox.Watch(ctx, a.Service.HandlePending)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	r := newEngine()
	httpctrl.NewDashboardHandler(a.Service, a.Stats).RegisterRoutes(r)
	return &Dashboard{Admin: a, Engine: r, stop: stop}, nil
}

func (d *Dashboard) Close() {
	if d.stop != nil {
		d.stop()
	}
}

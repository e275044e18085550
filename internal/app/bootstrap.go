package app

import (
	"context"
	"fmt"
	"log"

	"storefront-orders/internal/catalog"
	"storefront-orders/internal/config"
	mmysql "storefront-orders/internal/infra/mysql"
	"storefront-orders/internal/infra/rabbitmq"
	rstore "storefront-orders/internal/infra/redis"
	"storefront-orders/internal/infra/telegram"
	"storefront-orders/internal/repository"
	mysqlrepo "storefront-orders/internal/repository/mysql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Infra holds the production connections behind Deps.
type Infra struct {
	Deps    Deps
	Catalog *catalog.CachedSource
	closers []func()
}

func (in *Infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
}

// Connect dials Redis, RabbitMQ and the configured catalog and ledger
// backends for one execution context.
func Connect(ctx context.Context, cfg *config.Config) (*Infra, error) {
	in := &Infra{}
	ok := false
	defer func() {
		if !ok {
			in.Close()
		}
	}()

	rdb := rstore.NewClient(cfg.Redis)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	in.closers = append(in.closers, func() { _ = rdb.Close() })
	store := rstore.NewStore(rdb)
	in.Deps.Store = store

	broker, err := rabbitmq.NewBroker(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.ContextID)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: %w", err)
	}
	in.closers = append(in.closers, broker.Close)
	in.Deps.Bus = broker

	var src catalog.Source
	switch cfg.Catalog.Source {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		in.closers = append(in.closers, pool.Close)
		src = catalog.NewPostgresSource(pool)
	case "http":
		src = catalog.NewHTTPSource(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
	in.Catalog = catalog.NewCachedSource(src, store, cfg.Catalog.CacheTTL)
	in.Deps.Catalog = in.Catalog

	ledger, err := openLedger(cfg)
	if err != nil {
		return nil, err
	}
	in.Deps.Ledger = ledger

	if cfg.Telegram.Token != "" {
		n, err := telegram.NewDeliveryNotifier(cfg.Telegram.Token, cfg.Telegram.CourierChat)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		in.Deps.Dispatcher = n
	} else {
		log.Println("TELEGRAM_TOKEN not set, delivery hand-off is event only")
	}

	ok = true
	return in, nil
}

// openLedger returns nil for the key-value backend; Deps builds it over the
// notifying store.
func openLedger(cfg *config.Config) (repository.OrderRepository, error) {
	switch cfg.Ledger.Backend {
	case "kv":
		return nil, nil
	case "mysql":
		db, err := mmysql.Open(cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return mysqlrepo.NewOrderRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

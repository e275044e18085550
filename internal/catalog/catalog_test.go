package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acmeSnapshot() *Snapshot {
	return &Snapshot{
		Store:          StoreProfile{Name: "Acme", DisplayName: "Acme Shop", Currency: "MAD"},
		PaymentMethods: []PaymentMethod{{ID: "cash", Label: "Cash on delivery"}},
		DeliveryMethods: []DeliveryMethod{
			{ID: "home", Label: "Home delivery", RequiresAddress: true, Fee: decimal.NewFromInt(30)},
			{ID: "pickup", Label: "Store pickup"},
		},
		Products: []domain.Product{
			{ID: "p1", Name: "Mug", Price: decimal.NewFromInt(1000)},
		},
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	s := acmeSnapshot()

	d, ok := s.Delivery("home")
	require.True(t, ok)
	assert.True(t, d.RequiresAddress)
	_, ok = s.Delivery("drone")
	assert.False(t, ok)

	_, ok = s.Payment("cash")
	assert.True(t, ok)
	_, ok = s.Payment("card")
	assert.False(t, ok)

	p, ok := s.Product("p1")
	require.True(t, ok)
	assert.Equal(t, "Mug", p.Name)
}

func TestHTTPSource_Snapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stores/Acme":
			_ = json.NewEncoder(w).Encode(acmeSnapshot())
		case "/stores/Broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)

	s, err := src.Snapshot(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Shop", s.Store.DisplayName)
	require.Len(t, s.Products, 1)
	assert.True(t, decimal.NewFromInt(1000).Equal(s.Products[0].Price))

	_, err = src.Snapshot(context.Background(), "Nobody")
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, err = src.Snapshot(context.Background(), "Broken")
	assert.ErrorContains(t, err, "status 502")
}

type countingSource struct {
	calls int
	snap  *Snapshot
	err   error
}

func (c *countingSource) Snapshot(context.Context, string) (*Snapshot, error) {
	c.calls++
	return c.snap, c.err
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	inner := &countingSource{snap: acmeSnapshot()}
	store := storage.NewMemory()
	src := NewCachedSource(inner, store, time.Minute)

	s1, err := src.Snapshot(ctx, "Acme")
	require.NoError(t, err)
	s2, err := src.Snapshot(ctx, "Acme")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, s1.Store, s2.Store)

	_, err = store.Get(ctx, storage.CatalogKey("Acme"))
	assert.NoError(t, err)
}

func TestCachedSource_PropagatesMiss(t *testing.T) {
	inner := &countingSource{err: ErrStoreNotFound}
	src := NewCachedSource(inner, storage.NewMemory(), time.Minute)

	_, err := src.Snapshot(context.Background(), "Ghost")
	assert.ErrorIs(t, err, ErrStoreNotFound)

	src.Warmup(context.Background(), []string{"Ghost", "Ghost"})
	assert.Equal(t, 3, inner.calls)
}

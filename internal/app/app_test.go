package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"storefront-orders/internal/catalog"
	httpctrl "storefront-orders/internal/controllers/http"
	"storefront-orders/internal/domain"
	"storefront-orders/internal/infra/bus"
	"storefront-orders/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog map[string]*catalog.Snapshot

func (s staticCatalog) Snapshot(_ context.Context, store string) (*catalog.Snapshot, error) {
	snap, ok := s[store]
	if !ok {
		return nil, catalog.ErrStoreNotFound
	}
	return snap, nil
}

func testCatalog() staticCatalog {
	return staticCatalog{
		"Acme": {
			Store:          catalog.StoreProfile{Name: "Acme"},
			PaymentMethods: []catalog.PaymentMethod{{ID: "cash", Label: "Cash"}},
			DeliveryMethods: []catalog.DeliveryMethod{
				{ID: "home", Label: "Home delivery", RequiresAddress: true},
				{ID: "pickup", Label: "Pickup"},
			},
			Products: []domain.Product{
				{ID: "A", Name: "Product A", Price: decimal.NewFromInt(1000)},
				{ID: "B", Name: "Product B", Price: decimal.NewFromInt(500)},
			},
		},
	}
}

type world struct {
	hub    *bus.Hub
	shared *storage.Memory
	sf     *Storefront
}

func newWorld(t *testing.T) *world {
	gin.SetMode(gin.TestMode)
	w := &world{hub: bus.NewHub(), shared: storage.NewMemory()}
	w.sf = NewStorefront(Deps{Store: w.shared, Bus: w.hub.Connect("storefront"), Catalog: testCatalog()})
	return w
}

func (w *world) dashboard(t *testing.T) *Dashboard {
	d, err := NewDashboard(context.Background(), Deps{Store: w.shared, Bus: w.hub.Connect("dashboard"), Catalog: testCatalog()})
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(httpctrl.SessionHeader, "session-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func fillCart(t *testing.T, h http.Handler) {
	rec := do(t, h, http.MethodPost, "/stores/Acme/cart/lines", httpctrl.AddLineRequest{ProductID: "A", Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/stores/Acme/cart/lines", httpctrl.AddLineRequest{ProductID: "B", Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

var pickup = map[string]any{
	"customerInfo":   map[string]string{"name": "Sara", "phone": "0611"},
	"deliveryMethod": "pickup",
	"paymentMethod":  "cash",
}

func TestOrderFlow_CheckoutToConfirmation(t *testing.T) {
	w := newWorld(t)
	dash := w.dashboard(t)
	sf := w.sf.Engine

	fillCart(t, sf)
	cartResp := decode[httpctrl.CartResponse](t, do(t, sf, http.MethodGet, "/stores/Acme/cart", nil))
	assert.True(t, decimal.NewFromInt(2500).Equal(cartResp.Total))

	rec := do(t, sf, http.MethodPost, "/stores/Acme/checkout", pickup)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	checkout := decode[httpctrl.CheckoutResponse](t, rec)
	assert.True(t, decimal.NewFromInt(2500).Equal(checkout.Total))

	cartResp = decode[httpctrl.CartResponse](t, do(t, sf, http.MethodGet, "/stores/Acme/cart", nil))
	assert.Empty(t, cartResp.Lines)

	list := decode[httpctrl.OrderListResponse](t, do(t, dash.Engine, http.MethodGet, "/orders?store=Acme&status="+url.QueryEscape(string(domain.StatusPending)), nil))
	require.Equal(t, 1, list.Count)
	order := list.Orders[0]
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.True(t, decimal.NewFromInt(2500).Equal(order.Total))

	st := decode[domain.StoreStats](t, do(t, dash.Engine, http.MethodGet, "/stores/Acme/stats", nil))
	assert.Equal(t, 1, st.PendingOrders)
	assert.Equal(t, 0, st.TotalOrders)

	rec = do(t, dash.Engine, http.MethodPost, "/orders/"+order.ID+"/dispatch", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, dash.Engine, http.MethodPost, "/orders/"+order.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, dash.Engine, http.MethodPost, "/orders/"+order.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	st = decode[domain.StoreStats](t, do(t, dash.Engine, http.MethodGet, "/stores/Acme/stats", nil))
	assert.Equal(t, 0, st.PendingOrders)
	assert.Equal(t, 1, st.TotalOrders)
	require.Len(t, st.OrderHistory, 1)
	assert.Equal(t, 1, st.OrderHistory[0].Orders)

	rec = do(t, dash.Engine, http.MethodPost, "/orders/"+order.ID+"/dispatch", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	got := decode[domain.Order](t, do(t, dash.Engine, http.MethodGet, "/orders/"+order.ID, nil))
	assert.Equal(t, domain.StatusProcessed, got.Status)
}

func TestOrderFlow_ViewsAreCounted(t *testing.T) {
	w := newWorld(t)
	dash := w.dashboard(t)

	for i := 0; i < 2; i++ {
		rec := do(t, w.sf.Engine, http.MethodPost, "/stores/Acme/views", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	st := decode[domain.StoreStats](t, do(t, dash.Engine, http.MethodGet, "/stores/Acme/stats", nil))
	assert.Equal(t, 2, st.TotalViews)
}

func TestOrderFlow_DashboardStartedLaterPicksUpOrder(t *testing.T) {
	w := newWorld(t)
	fillCart(t, w.sf.Engine)
	rec := do(t, w.sf.Engine, http.MethodPost, "/stores/Acme/checkout", pickup)
	require.Equal(t, http.StatusCreated, rec.Code)

	dash := w.dashboard(t)
	list := decode[httpctrl.OrderListResponse](t, do(t, dash.Engine, http.MethodGet, "/orders", nil))
	assert.Equal(t, 1, list.Count)
}

func TestOrderFlow_ValidationFailureWritesNothing(t *testing.T) {
	w := newWorld(t)
	dash := w.dashboard(t)
	fillCart(t, w.sf.Engine)

	rec := do(t, w.sf.Engine, http.MethodPost, "/stores/Acme/checkout", map[string]any{
		"customerInfo":   map[string]string{"name": "Sara", "phone": "0611"},
		"deliveryMethod": "home",
		"paymentMethod":  "cash",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "address", body["field"])

	cartResp := decode[httpctrl.CartResponse](t, do(t, w.sf.Engine, http.MethodGet, "/stores/Acme/cart", nil))
	assert.Len(t, cartResp.Lines, 2)

	list := decode[httpctrl.OrderListResponse](t, do(t, dash.Engine, http.MethodGet, "/orders", nil))
	assert.Zero(t, list.Count)
	_, err := w.shared.Get(context.Background(), storage.KeyPendingOrder)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-orders/internal/cart"
	"storefront-orders/internal/catalog"
	"storefront-orders/internal/domain"
	"storefront-orders/internal/mocks"
	"storefront-orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Store:           catalog.StoreProfile{Name: "Acme"},
		PaymentMethods:  []catalog.PaymentMethod{{ID: "cash"}},
		DeliveryMethods: []catalog.DeliveryMethod{{ID: "pickup"}},
		Products: []domain.Product{
			{ID: "A", Name: "Product A", Price: decimal.NewFromInt(1000)},
		},
	}
}

func setupStorefront(t *testing.T) (*gin.Engine, *mocks.MockCatalogSource, *mocks.MockMailbox, *services.Signals) {
	gin.SetMode(gin.TestMode)
	src := new(mocks.MockCatalogSource)
	mb := new(mocks.MockMailbox)
	signals := services.NewSignals()

	r := gin.New()
	NewStorefrontHandler(src, cart.NewSessions(), cart.NewCompiler(mb), signals).RegisterRoutes(r)
	return r, src, mb, signals
}

func request(r http.Handler, method, path, session string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStorefront_CartRequiresSession(t *testing.T) {
	r, _, _, _ := setupStorefront(t)

	rec := request(r, http.MethodGet, "/stores/Acme/cart", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorefront_UnknownStore(t *testing.T) {
	r, src, _, _ := setupStorefront(t)
	src.On("Snapshot", mock.Anything, "Nope").Return(nil, catalog.ErrStoreNotFound)

	rec := request(r, http.MethodGet, "/stores/Nope/catalog", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorefront_CartLineEdits(t *testing.T) {
	r, src, _, _ := setupStorefront(t)
	src.On("Snapshot", mock.Anything, "Acme").Return(testSnapshot(), nil)

	rec := request(r, http.MethodPost, "/stores/Acme/cart/lines", "s1", AddLineRequest{ProductID: "A", Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(r, http.MethodPost, "/stores/Acme/cart/lines", "s1", AddLineRequest{ProductID: "missing", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(r, http.MethodPatch, "/stores/Acme/cart/lines/0", "s1", SetQuantityRequest{Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, decimal.NewFromInt(3000).Equal(resp.Total))

	rec = request(r, http.MethodDelete, "/stores/Acme/cart/lines/5", "s1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(r, http.MethodGet, "/stores/Acme/cart", "s2", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Lines)
}

func TestStorefront_CheckoutEmptyCart(t *testing.T) {
	r, src, mb, _ := setupStorefront(t)
	src.On("Snapshot", mock.Anything, "Acme").Return(testSnapshot(), nil)

	rec := request(r, http.MethodPost, "/stores/Acme/checkout", "s1", cart.CheckoutRequest{
		Customer: domain.Customer{Name: "Sara", Phone: "0611"},
		Delivery: "pickup",
		Payment:  "cash",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"items"`)
	mb.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)
}

func TestStorefront_CheckoutMailboxFailureKeepsCart(t *testing.T) {
	r, src, mb, _ := setupStorefront(t)
	src.On("Snapshot", mock.Anything, "Acme").Return(testSnapshot(), nil)
	mb.On("Post", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	request(r, http.MethodPost, "/stores/Acme/cart/lines", "s1", AddLineRequest{ProductID: "A", Quantity: 2})
	rec := request(r, http.MethodPost, "/stores/Acme/checkout", "s1", cart.CheckoutRequest{
		Customer: domain.Customer{Name: "Sara", Phone: "0611"},
		Delivery: "pickup",
		Payment:  "cash",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = request(r, http.MethodGet, "/stores/Acme/cart", "s1", nil)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Lines, 1)
}

func TestStorefront_RecordViewEmitsSignal(t *testing.T) {
	r, _, _, signals := setupStorefront(t)
	var seen []string
	signals.StoreView.Connect(func(_ context.Context, name string) { seen = append(seen, name) })

	rec := request(r, http.MethodPost, "/stores/Acme/views", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"Acme"}, seen)
}

func TestStorefront_SessionsReleasedAfterReadsAndCheckout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	src := new(mocks.MockCatalogSource)
	src.On("Snapshot", mock.Anything, "Acme").Return(testSnapshot(), nil)
	mb := new(mocks.MockMailbox)
	mb.On("Post", mock.Anything, mock.Anything).Return(nil)
	sessions := cart.NewSessions()

	r := gin.New()
	NewStorefrontHandler(src, sessions, cart.NewCompiler(mb), services.NewSignals()).RegisterRoutes(r)

	for _, id := range []string{"r1", "r2", "r3"} {
		rec := request(r, http.MethodGet, "/stores/Acme/cart", id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"lines":[],"total":"0"}`, rec.Body.String())
	}
	assert.Zero(t, sessions.Len())

	request(r, http.MethodPost, "/stores/Acme/cart/lines", "buyer", AddLineRequest{ProductID: "A", Quantity: 1})
	assert.Equal(t, 1, sessions.Len())

	rec := request(r, http.MethodPost, "/stores/Acme/checkout", "buyer", cart.CheckoutRequest{
		Customer: domain.Customer{Name: "Sara", Phone: "0611"},
		Delivery: "pickup",
		Payment:  "cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Zero(t, sessions.Len())
}

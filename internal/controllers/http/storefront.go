package http

import (
	"net/http"
	"strconv"

	"storefront-orders/internal/cart"
	"storefront-orders/internal/catalog"
	"storefront-orders/internal/domain"
	"storefront-orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type StorefrontHandler struct {
	catalog  catalog.Source
	sessions *cart.Sessions
	compiler *cart.Compiler
	signals  *services.Signals
}

func NewStorefrontHandler(src catalog.Source, sessions *cart.Sessions, compiler *cart.Compiler, signals *services.Signals) *StorefrontHandler {
	return &StorefrontHandler{catalog: src, sessions: sessions, compiler: compiler, signals: signals}
}

func (h *StorefrontHandler) RegisterRoutes(r *gin.Engine) {
	s := r.Group("/stores/:store")
	s.GET("/catalog", h.GetCatalog)
	s.POST("/views", h.RecordView)

	c := s.Group("/cart", h.requireSession)
	c.GET("", h.GetCart)
	c.DELETE("", h.ResetCart)
	c.POST("/lines", h.AddLine)
	c.PATCH("/lines/:index", h.SetQuantity)
	c.DELETE("/lines/:index", h.RemoveLine)
	s.POST("/checkout", h.requireSession, h.Checkout)
}

func (h *StorefrontHandler) requireSession(c *gin.Context) {
	if c.GetHeader(SessionHeader) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": SessionHeader + " header required"})
		return
	}
	c.Next()
}

func sessionKey(c *gin.Context) string {
	return c.Param("store") + "|" + c.GetHeader(SessionHeader)
}

func (h *StorefrontHandler) GetCatalog(c *gin.Context) {
	snap, err := h.catalog.Snapshot(c.Request.Context(), c.Param("store"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// RecordView raises the storeView signal for a storefront activation.
func (h *StorefrontHandler) RecordView(c *gin.Context) {
	h.signals.StoreView.Emit(c.Request.Context(), c.Param("store"))
	c.Status(http.StatusNoContent)
}

func (h *StorefrontHandler) GetCart(c *gin.Context) {
	resp := CartResponse{Lines: []domain.CartLine{}, Total: decimal.Zero}
	h.sessions.View(sessionKey(c), func(ct *cart.Cart) {
		resp = cartResponse(ct)
	})
	c.JSON(http.StatusOK, resp)
}

func (h *StorefrontHandler) ResetCart(c *gin.Context) {
	h.sessions.Drop(sessionKey(c))
	c.Status(http.StatusNoContent)
}

func (h *StorefrontHandler) AddLine(c *gin.Context) {
	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := h.catalog.Snapshot(c.Request.Context(), c.Param("store"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	product, ok := snap.Product(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var resp CartResponse
	err = h.sessions.With(sessionKey(c), func(ct *cart.Cart) error {
		if err := ct.AddLine(product, req.Quantity, req.Size, req.Color); err != nil {
			return err
		}
		resp = cartResponse(ct)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StorefrontHandler) SetQuantity(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var resp CartResponse
	err = h.sessions.With(sessionKey(c), func(ct *cart.Cart) error {
		if err := ct.SetQuantity(index, req.Quantity); err != nil {
			return err
		}
		resp = cartResponse(ct)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StorefrontHandler) RemoveLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	var resp CartResponse
	err = h.sessions.With(sessionKey(c), func(ct *cart.Cart) error {
		if err := ct.RemoveLine(index); err != nil {
			return err
		}
		resp = cartResponse(ct)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StorefrontHandler) Checkout(c *gin.Context) {
	var req cart.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	snap, err := h.catalog.Snapshot(ctx, c.Param("store"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	var resp CheckoutResponse
	err = h.sessions.With(sessionKey(c), func(ct *cart.Cart) error {
		p, err := h.compiler.Checkout(ctx, ct, snap, req)
		if err != nil {
			return err
		}
		resp = CheckoutResponse{StoreID: p.StoreID, Items: p.Items, Total: p.Total}
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func cartResponse(ct *cart.Cart) CartResponse {
	return CartResponse{Lines: ct.Lines(), Total: ct.Total()}
}

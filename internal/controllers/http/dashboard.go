package http

import (
	"net/http"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/services"
	"storefront-orders/internal/stats"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *services.OrderService
	stats   *stats.Aggregator
}

func NewDashboardHandler(s *services.OrderService, agg *stats.Aggregator) *DashboardHandler {
	return &DashboardHandler{service: s, stats: agg}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/confirm", h.ConfirmOrder)
	r.POST("/orders/:id/dispatch", h.DispatchOrder)
	r.GET("/stores/:store/stats", h.GetStats)
	r.POST("/stores/:store/stats/recompute", h.RecomputeStats)
}

func (h *DashboardHandler) ListOrders(c *gin.Context) {
	filter := services.ListFilter{
		StoreID: c.Query("store"),
		Search:  c.Query("q"),
		Status:  c.Query("status"),
	}
	if filter.Status != "" && filter.Status != domain.StatusAll && !domain.OrderStatus(filter.Status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + filter.Status})
		return
	}

	from, to := c.Query("from"), c.Query("to")
	if from != "" && to != "" {
		f, err := time.Parse(domain.HistoryDateLayout, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		t, err := time.Parse(domain.HistoryDateLayout, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.From, filter.To = &f, &endOfDay
	}

	orders, err := h.service.ListFiltered(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderListResponse{Orders: orders, Count: len(orders)})
}

func (h *DashboardHandler) GetOrder(c *gin.Context) {
	o, err := h.service.GetOrderById(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *DashboardHandler) ConfirmOrder(c *gin.Context) {
	o, err := h.service.ConfirmProcessed(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *DashboardHandler) DispatchOrder(c *gin.Context) {
	o, err := h.service.MarkDispatched(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": o.ID, "status": o.Status, "dispatched": true})
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	st, err := h.stats.Get(c.Request.Context(), c.Param("store"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *DashboardHandler) RecomputeStats(c *gin.Context) {
	st, err := h.stats.Recompute(c.Request.Context(), c.Param("store"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

package http

import (
	"errors"
	"net/http"

	"storefront-orders/internal/cart"
	"storefront-orders/internal/catalog"
	"storefront-orders/internal/services"

	"github.com/gin-gonic/gin"
)

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	var verr *cart.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, catalog.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, cart.ErrLineOutOfRange), errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var verr *cart.ValidationError
	if errors.As(err, &verr) {
		body = gin.H{"field": verr.Field, "error": verr.Message}
	}
	c.AbortWithStatusJSON(errorStatus(err), body)
}

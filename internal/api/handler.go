package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autocare-backend/internal/booking"
	"autocare-backend/internal/notification"
	"autocare-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	allocator  *booking.Allocator
	lifecycle  *booking.Lifecycle
	dispatcher notification.PayloadSender
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, allocator *booking.Allocator, lifecycle *booking.Lifecycle, dispatcher notification.PayloadSender) *Handler {
	return &Handler{
		store:      s,
		allocator:  allocator,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
	}
}

// abortWithError maps the core error taxonomy onto HTTP statuses. Core
// errors are user-correctable and surfaced verbatim; anything else is a
// persistence problem the caller may safely retry.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrSlotFull):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

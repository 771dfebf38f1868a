package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autocare-backend/internal/booking"
	"autocare-backend/internal/model"
)

type createBookingRequest struct {
	CustomerID    string `json:"customer_id" binding:"required,uuid"`
	VehicleID     string `json:"vehicle_id" binding:"required,uuid"`
	ServiceTypeID string `json:"service_type_id" binding:"required,uuid"`
	TimeSlotID    string `json:"time_slot_id" binding:"required,uuid"`
	Notes         string `json:"notes"`
}

// CreateBooking handles POST /api/bookings. The capacity check and the
// booking insert happen in one transaction inside the allocator; a full
// slot comes back as 409.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := booking.Draft{
		CustomerID:    uuid.MustParse(req.CustomerID),
		VehicleID:     uuid.MustParse(req.VehicleID),
		ServiceTypeID: uuid.MustParse(req.ServiceTypeID),
		Notes:         req.Notes,
	}

	b, err := h.allocator.Reserve(c.Request.Context(), uuid.MustParse(req.TimeSlotID), draft)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBookings handles GET /api/bookings?customer_id=... for the customer
// dashboard.
func (h *Handler) GetBookings(c *gin.Context) {
	customerID := c.Query("customer_id")
	if _, err := uuid.Parse(customerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
		return
	}

	bookings, err := h.store.ListBookingsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking handles GET /api/bookings/:id.
func (h *Handler) GetBooking(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.store.GetBooking(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingHistory handles GET /api/bookings/:id/history. Rows come back
// oldest-first so the client can render the status timeline directly.
func (h *Handler) GetBookingHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	history, err := h.store.ListBookingHistory(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

type cancelBookingRequest struct {
	Notes string `json:"notes"`
}

// CancelBooking handles POST /api/bookings/:id/cancel. Cancellation is a
// regular lifecycle transition: it fails on terminal or in-progress
// bookings, and the slot seat is given back by the lifecycle's
// compensating release.
func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	record, err := h.lifecycle.Transition(c.Request.Context(), id, model.StatusCancelled, "customer", req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

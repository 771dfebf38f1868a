package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"autocare-backend/internal/model"
)

// AdminListBookings handles GET /api/admin/bookings?status=... — the
// joined listing behind the staff dashboard.
func (h *Handler) AdminListBookings(c *gin.Context) {
	status := model.BookingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	bookings, err := h.store.ListBookings(c.Request.Context(), status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type setStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	ChangedBy string `json:"changed_by" binding:"required"`
	Notes     string `json:"notes"`
}

// AdminSetStatus handles PATCH /api/admin/bookings/:id/status. It is the
// only staff entry point for status changes and always routes through the
// lifecycle gate; the status column is never written directly.
func (h *Handler) AdminSetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.lifecycle.Transition(c.Request.Context(), id, model.BookingStatus(req.Status), req.ChangedBy, req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

type createSlotRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required,gt=0"`
}

// CreateSlot handles POST /api/admin/slots.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	slot := model.TimeSlot{
		Date:      datatypes.Date(date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		Active:    true,
	}
	if err := h.store.DB().WithContext(c.Request.Context()).Create(&slot).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

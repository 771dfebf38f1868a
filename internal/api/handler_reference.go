package api

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"autocare-backend/internal/model"
)

// Reference-data handlers. These are the simple CRUD collaborators outside
// the booking core; they carry no invariants beyond basic validation.

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// GetServiceTypes handles GET /api/services.
func (h *Handler) GetServiceTypes(c *gin.Context) {
	services, err := h.store.ListActiveServiceTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetSlots handles GET /api/slots?date=YYYY-MM-DD. Never cached: clients
// use booked_count to grey out full slots.
func (h *Handler) GetSlots(c *gin.Context) {
	raw := c.Query("date")
	if !dateRe.MatchString(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	slots, err := h.store.ListSlotsByDate(c.Request.Context(), date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetVehicles handles GET /api/vehicles?customer_id=...
func GetVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")
		if _, err := uuid.Parse(customerID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}

		var vehicles []model.Vehicle
		if err := db.Where("customer_id = ?", customerID).
			Order("created_at DESC").
			Find(&vehicles).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vehicles"})
			return
		}
		c.JSON(http.StatusOK, vehicles)
	}
}

type vehicleRequest struct {
	CustomerID         string `json:"customer_id" binding:"required,uuid"`
	VehicleType        string `json:"vehicle_type" binding:"required,oneof=car bike"`
	Make               string `json:"make" binding:"required"`
	Model              string `json:"model" binding:"required"`
	Year               int    `json:"year" binding:"required,gte=1950"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
}

// CreateVehicle handles POST /api/vehicles.
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req vehicleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		vehicle := model.Vehicle{
			CustomerID:         uuid.MustParse(req.CustomerID),
			VehicleType:        req.VehicleType,
			Make:               req.Make,
			Model:              req.Model,
			Year:               req.Year,
			RegistrationNumber: req.RegistrationNumber,
		}
		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, vehicle)
	}
}

// UpdateVehicle handles PUT /api/vehicles/:id.
func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
			return
		}

		var req vehicleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res := db.Model(&model.Vehicle{}).Where("id = ?", id).Updates(map[string]any{
			"vehicle_type":        req.VehicleType,
			"make":                req.Make,
			"model":               req.Model,
			"year":                req.Year,
			"registration_number": req.RegistrationNumber,
		})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteVehicle handles DELETE /api/vehicles/:id.
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
			return
		}

		if err := db.Delete(&model.Vehicle{}, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

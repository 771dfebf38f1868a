package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"autocare-backend/config"
	"autocare-backend/internal/booking"
	"autocare-backend/internal/mw"
	"autocare-backend/internal/notification"
	"autocare-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(
	s store.Store,
	allocator *booking.Allocator,
	lifecycle *booking.Lifecycle,
	dispatcher notification.PayloadSender,
	cfg *config.ServerConfig,
) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, allocator, lifecycle, dispatcher)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Reference data. Only the service catalogue sits behind the cache;
		// slot listings carry live booked_count.
		api.GET("/services", caching, handler.GetServiceTypes)
		api.GET("/slots", handler.GetSlots)

		api.GET("/vehicles", GetVehicles(db))
		api.POST("/vehicles", CreateVehicle(db))
		api.PUT("/vehicles/:id", UpdateVehicle(db))
		api.DELETE("/vehicles/:id", DeleteVehicle(db))

		// Booking core.
		api.POST("/bookings", handler.CreateBooking)
		api.GET("/bookings", handler.GetBookings)
		api.GET("/bookings/:id", handler.GetBooking)
		api.GET("/bookings/:id/history", handler.GetBookingHistory)
		api.POST("/bookings/:id/cancel", handler.CancelBooking)

		admin := api.Group("/admin")
		{
			admin.GET("/bookings", handler.AdminListBookings)
			admin.PATCH("/bookings/:id/status", handler.AdminSetStatus)
			admin.POST("/slots", handler.CreateSlot)
		}
	}

	// The notification boundary is CORS-enabled and answers preflight.
	notify := r.Group("/api/notifications")
	notify.Use(mw.CORS())
	{
		notify.POST("/send", handler.SendNotification)
		notify.OPTIONS("/send", func(c *gin.Context) {})
	}

	return r
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autocare-backend/internal/notification"
)

// SendNotification handles POST /api/notifications/send — the external
// notification boundary. It accepts the booking payload, attempts both
// channels and reports per-channel outcomes. A delivery failure is not an
// HTTP error; only a malformed request is.
func (h *Handler) SendNotification(c *gin.Context) {
	var p notification.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res := h.dispatcher.Notify(c.Request.Context(), p)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"smsSent":   res.SMSSent,
		"emailSent": res.EmailSent,
	})
}

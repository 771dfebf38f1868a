package notification

import (
	"context"
	"log"
	"net/http"
	"time"

	"autocare-backend/config"
)

// Payload is the notification contract: the same JSON body the HTTP
// boundary accepts and the worker builds internally.
type Payload struct {
	BookingID    string `json:"bookingId"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	CustomerName string `json:"customerName"`
	ServiceName  string `json:"serviceName"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
}

// DispatchResult reports per-channel delivery success. A channel that is
// not configured, or whose provider call failed, reads false.
type DispatchResult struct {
	SMSSent   bool `json:"smsSent"`
	EmailSent bool `json:"emailSent"`
}

// statusMessages maps each persisted status token to its customer-facing
// message. Unknown statuses fall back to the generic default.
var statusMessages = map[string]string{
	"pending":     "Your booking has been received and is pending confirmation.",
	"confirmed":   "Your booking has been confirmed!",
	"in_progress": "Your vehicle service is now in progress.",
	"completed":   "Your vehicle service has been completed. Thank you for choosing AutoCare!",
	"cancelled":   "Your booking has been cancelled.",
}

const defaultMessage = "Your booking status has been updated."

// MessageFor returns the canned message for a status.
func MessageFor(status string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return defaultMessage
}

// Channel is one delivery mechanism. Configured reports whether the
// channel's provider credentials are present; Send attempts one delivery.
type Channel interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, p Payload, message string) error
}

// Dispatcher attempts a best-effort delivery on each configured channel.
// Channel failures are logged and reflected in the result, never returned:
// a notification problem is not an error of the operation that caused it.
type Dispatcher struct {
	sms   Channel
	email Channel
}

// NewDispatcher builds a dispatcher with the Twilio SMS and SendGrid email
// channels. The HTTP timeout is the dispatcher's own concern and does not
// propagate to callers.
func NewDispatcher(cfg *config.NotifyConfig) *Dispatcher {
	client := &http.Client{Timeout: 10 * time.Second}
	return &Dispatcher{
		sms:   NewTwilioChannel(cfg, client),
		email: NewSendgridChannel(cfg, client),
	}
}

// NewDispatcherWithChannels is the injection point for tests.
func NewDispatcherWithChannels(sms, email Channel) *Dispatcher {
	return &Dispatcher{sms: sms, email: email}
}

// Notify composes the message for p.Status and independently attempts both
// channels. One channel's failure never blocks the other.
func (d *Dispatcher) Notify(ctx context.Context, p Payload) DispatchResult {
	message := MessageFor(p.Status)

	var res DispatchResult
	if d.sms != nil && d.sms.Configured() {
		if err := d.sms.Send(ctx, p, message); err != nil {
			log.Printf("notification: %s delivery failed for booking %s: %v", d.sms.Name(), p.BookingID, err)
		} else {
			res.SMSSent = true
		}
	}
	if d.email != nil && d.email.Configured() {
		if err := d.email.Send(ctx, p, message); err != nil {
			log.Printf("notification: %s delivery failed for booking %s: %v", d.email.Name(), p.BookingID, err)
		} else {
			res.EmailSent = true
		}
	}
	return res
}

package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"autocare-backend/config"
)

const sendgridAPIBase = "https://api.sendgrid.com"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SendgridChannel delivers email through the SendGrid v3 mail API.
type SendgridChannel struct {
	apiKey    string
	fromEmail string
	client    *http.Client
	baseURL   string
}

// NewSendgridChannel creates the email channel from config. The channel is
// inactive unless the SendGrid API key is set.
func NewSendgridChannel(cfg *config.NotifyConfig, client *http.Client) *SendgridChannel {
	return &SendgridChannel{
		apiKey:    cfg.SendgridAPIKey,
		fromEmail: cfg.FromEmail,
		client:    client,
		baseURL:   sendgridAPIBase,
	}
}

func (s *SendgridChannel) Name() string { return "email" }

func (s *SendgridChannel) Configured() bool {
	return s.apiKey != ""
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridPersonalization struct {
	To      []sendgridAddress `json:"to"`
	Subject string            `json:"subject"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridMail struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Content          []sendgridContent         `json:"content"`
}

// Send posts one mail to the SendGrid v3 send endpoint.
func (s *SendgridChannel) Send(ctx context.Context, p Payload, message string) error {
	subject := fmt.Sprintf("AutoCare Booking Update - %s",
		strings.ToUpper(strings.ReplaceAll(p.Status, "_", " ")))

	mail := sendgridMail{
		Personalizations: []sendgridPersonalization{{
			To:      []sendgridAddress{{Email: p.Email}},
			Subject: subject,
		}},
		From: sendgridAddress{Email: s.fromEmail},
		Content: []sendgridContent{{
			Type:  "text/html",
			Value: emailHTML(p, message),
		}},
	}

	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("encode sendgrid mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded %d", resp.StatusCode)
	}
	return nil
}

func emailHTML(p Payload, message string) string {
	status := strings.ReplaceAll(p.Status, "_", " ")
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #2563eb;">AutoCare</h1>
  <h2>Booking Update</h2>
  <p>Hi %s,</p>
  <p>%s</p>
  <table>
    <tr><td>Service:</td><td><strong>%s</strong></td></tr>
    <tr><td>Date:</td><td><strong>%s</strong></td></tr>
    <tr><td>Time:</td><td><strong>%s</strong></td></tr>
    <tr><td>Status:</td><td><strong style="text-transform: capitalize;">%s</strong></td></tr>
  </table>
  <p>Thank you for choosing AutoCare!</p>
</div>`, p.CustomerName, message, p.ServiceName, p.Date, p.Time, status)
}

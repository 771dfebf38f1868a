package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"autocare-backend/config"
)

const twilioAPIBase = "https://api.twilio.com"

// TwilioChannel delivers SMS through the Twilio REST API.
type TwilioChannel struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
	baseURL    string
}

// NewTwilioChannel creates the SMS channel from config. The channel is
// inactive unless all three Twilio credentials are set.
func NewTwilioChannel(cfg *config.NotifyConfig, client *http.Client) *TwilioChannel {
	return &TwilioChannel{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		fromNumber: cfg.TwilioPhoneNumber,
		client:     client,
		baseURL:    twilioAPIBase,
	}
}

func (t *TwilioChannel) Name() string { return "sms" }

func (t *TwilioChannel) Configured() bool {
	return t.accountSID != "" && t.authToken != "" && t.fromNumber != ""
}

// Send posts one message to the Twilio Messages endpoint.
func (t *TwilioChannel) Send(ctx context.Context, p Payload, message string) error {
	body := fmt.Sprintf("Hi %s, %s Service: %s, Date: %s at %s. - AutoCare",
		p.CustomerName, message, p.ServiceName, p.Date, p.Time)

	form := url.Values{}
	form.Set("To", p.Phone)
	form.Set("From", t.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio responded %d", resp.StatusCode)
	}
	return nil
}

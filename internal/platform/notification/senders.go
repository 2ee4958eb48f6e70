package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	sendgridURL       = "https://api.sendgrid.com/v3/mail/send"
	twilioURLTemplate = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"
)

var defaultHTTPClient = &http.Client{Timeout: 15 * time.Second}

// ---------------------------------------------------------------------------
// SendGrid
// ---------------------------------------------------------------------------

// SendGridSender sends email through the SendGrid v3 mail API. When no API key
// is configured the sender logs the message and reports success, so local
// environments work without credentials.
type SendGridSender struct {
	apiKey      string
	fromAddress string
	fromName    string
	client      *http.Client
	logger      zerolog.Logger
}

// NewSendGridSender constructs a SendGridSender.
func NewSendGridSender(apiKey, fromAddress, fromName string, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
		client:      defaultHTTPClient,
		logger:      logger.With().Str("component", "sendgrid").Logger(),
	}
}

type sendgridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendgridPayload struct {
	Personalizations []struct {
		To []sendgridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendgridAddress `json:"from"`
	Subject string          `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// SendEmail implements EmailSender.
func (s *SendGridSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.apiKey == "" {
		s.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("sendgrid not configured, email not delivered")
		return nil
	}

	payload := sendgridPayload{
		From:    sendgridAddress{Email: s.fromAddress, Name: s.fromName},
		Subject: subject,
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []sendgridAddress `json:"to"`
	}{To: []sendgridAddress{{Email: to}}})
	payload.Content = append(payload.Content, struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Type: "text/plain", Value: body})

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridURL, bytes.NewReader(raw))
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
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Twilio
// ---------------------------------------------------------------------------

// TwilioSender sends SMS messages through the Twilio Messages API. When the
// account SID or auth token is missing the sender logs the message and reports
// success.
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
	logger     zerolog.Logger
}

// NewTwilioSender constructs a TwilioSender.
func NewTwilioSender(accountSID, authToken, fromNumber string, logger zerolog.Logger) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client:     defaultHTTPClient,
		logger:     logger.With().Str("component", "twilio").Logger(),
	}
}

// SendSMS implements SMSSender.
func (t *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if t.accountSID == "" || t.authToken == "" {
		t.logger.Info().
			Str("to", to).
			Msg("twilio not configured, sms not delivered")
		return nil
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf(twilioURLTemplate, t.accountSID)
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
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// Package notification delivers appointment emails and SMS messages through
// pluggable sender backends, with {{key}} template rendering.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

// appointmentTimeLayout is the human-readable format used in all outbound
// messages, e.g. "Monday, January 2, 2006 at 03:04 PM".
const appointmentTimeLayout = "Monday, January 2, 2006 at 03:04 PM"

// ---------------------------------------------------------------------------
// Sender Interfaces
// ---------------------------------------------------------------------------

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender is the interface for sending SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// ---------------------------------------------------------------------------
// Template Engine
// ---------------------------------------------------------------------------

// Template defines a reusable notification template.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[string]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "appointment-confirmation",
			Subject: "Appointment Confirmation - {{clinic_name}}",
			Body: "Dear {{client_name}},\n\n" +
				"Your appointment for {{animal_name}} ({{reason}}) has been scheduled for {{start_time}}.\n\n" +
				"If you need to reschedule, please call us at {{clinic_phone}}.\n\n" +
				"{{clinic_name}}",
		},
		{
			ID:      "appointment-reminder",
			Subject: "Appointment Reminder - {{clinic_name}}",
			Body: "Dear {{client_name}},\n\n" +
				"This is a reminder that {{animal_name}} has an appointment ({{reason}}) on {{start_time}}.\n\n" +
				"If you need to reschedule, please call us at {{clinic_phone}}.\n\n" +
				"{{clinic_name}}",
		},
		{
			ID:   "appointment-confirmation-sms",
			Body: "{{clinic_name}}: appointment for {{animal_name}} confirmed for {{start_time}}. Questions? Call {{clinic_phone}}.",
		},
		{
			ID:   "appointment-reminder-sms",
			Body: "{{clinic_name}}: reminder, {{animal_name}} has an appointment on {{start_time}}.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are left
// as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// ---------------------------------------------------------------------------
// Dispatcher
// ---------------------------------------------------------------------------

// AppointmentMessage carries everything needed to render an appointment
// notification for one recipient.
type AppointmentMessage struct {
	ClientName  string
	ClientEmail string
	ClientPhone string
	AnimalName  string
	Reason      string
	StartTime   time.Time
	ClinicName  string
	ClinicPhone string
}

// Dispatcher renders appointment templates and delivers them through the
// configured email and SMS senders.
type Dispatcher struct {
	email     EmailSender
	sms       SMSSender
	templates *TemplateEngine
	logger    zerolog.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(email EmailSender, sms SMSSender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		email:     email,
		sms:       sms,
		templates: NewTemplateEngine(),
		logger:    logger.With().Str("component", "notification").Logger(),
	}
}

// templateData builds the replacement map for an appointment message,
// substituting fallbacks for optional fields.
func templateData(msg AppointmentMessage) map[string]string {
	animal := msg.AnimalName
	if animal == "" {
		animal = "your pet"
	}
	reason := msg.Reason
	if reason == "" {
		reason = "checkup"
	}
	return map[string]string{
		"client_name":  msg.ClientName,
		"animal_name":  animal,
		"reason":       reason,
		"start_time":   msg.StartTime.Format(appointmentTimeLayout),
		"clinic_name":  msg.ClinicName,
		"clinic_phone": msg.ClinicPhone,
	}
}

// SendConfirmationEmail delivers an appointment confirmation email.
func (d *Dispatcher) SendConfirmationEmail(ctx context.Context, msg AppointmentMessage) error {
	return d.sendEmail(ctx, "appointment-confirmation", msg)
}

// SendReminderEmail delivers an appointment reminder email.
func (d *Dispatcher) SendReminderEmail(ctx context.Context, msg AppointmentMessage) error {
	return d.sendEmail(ctx, "appointment-reminder", msg)
}

// SendConfirmationSMS delivers an appointment confirmation text message.
func (d *Dispatcher) SendConfirmationSMS(ctx context.Context, msg AppointmentMessage) error {
	return d.sendSMS(ctx, "appointment-confirmation-sms", msg)
}

// SendReminderSMS delivers an appointment reminder text message.
func (d *Dispatcher) SendReminderSMS(ctx context.Context, msg AppointmentMessage) error {
	return d.sendSMS(ctx, "appointment-reminder-sms", msg)
}

func (d *Dispatcher) sendEmail(ctx context.Context, templateID string, msg AppointmentMessage) error {
	if msg.ClientEmail == "" {
		d.logger.Debug().Str("template", templateID).Msg("recipient has no email address, skipping")
		return nil
	}
	subject, body, err := d.templates.Render(templateID, templateData(msg))
	if err != nil {
		return err
	}
	if err := d.email.SendEmail(ctx, msg.ClientEmail, subject, body); err != nil {
		d.logger.Error().Err(err).
			Str("template", templateID).
			Str("recipient", msg.ClientEmail).
			Msg("email delivery failed")
		return fmt.Errorf("%w: %v", clinicerr.ErrDeliveryFailed, err)
	}
	d.logger.Info().
		Str("template", templateID).
		Str("recipient", msg.ClientEmail).
		Msg("email sent")
	return nil
}

func (d *Dispatcher) sendSMS(ctx context.Context, templateID string, msg AppointmentMessage) error {
	if msg.ClientPhone == "" {
		d.logger.Debug().Str("template", templateID).Msg("recipient has no phone number, skipping")
		return nil
	}
	_, body, err := d.templates.Render(templateID, templateData(msg))
	if err != nil {
		return err
	}
	if err := d.sms.SendSMS(ctx, msg.ClientPhone, body); err != nil {
		d.logger.Error().Err(err).
			Str("template", templateID).
			Str("recipient", msg.ClientPhone).
			Msg("sms delivery failed")
		return fmt.Errorf("%w: %v", clinicerr.ErrDeliveryFailed, err)
	}
	d.logger.Info().
		Str("template", templateID).
		Str("recipient", msg.ClientPhone).
		Msg("sms sent")
	return nil
}

// ---------------------------------------------------------------------------
// Mock Senders (test doubles)
// ---------------------------------------------------------------------------

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

// SendEmail records the call and optionally returns an error.
func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// SMSCall records a single call to SendSMS.
type SMSCall struct {
	To   string
	Body string
}

// MockSMSSender is a test double for SMSSender.
type MockSMSSender struct {
	mu         sync.Mutex
	calls      []SMSCall
	ShouldFail bool
	FailError  string
}

// SendSMS records the call and optionally returns an error.
func (m *MockSMSSender) SendSMS(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SMSCall{To: to, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded SMS calls.
func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}

package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

func testMessage() AppointmentMessage {
	return AppointmentMessage{
		ClientName:  "Maria Lopez",
		ClientEmail: "maria@example.com",
		ClientPhone: "+15550001111",
		AnimalName:  "Rex",
		Reason:      "Annual vaccination",
		StartTime:   time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC),
		ClinicName:  "VitaClinic Veterinary Hospital",
		ClinicPhone: "(555) 123-4567",
	}
}

func TestTemplateEngineRender(t *testing.T) {
	e := NewTemplateEngine()
	subject, body, err := e.Render("appointment-confirmation", map[string]string{
		"client_name":  "Maria Lopez",
		"animal_name":  "Rex",
		"reason":       "Annual vaccination",
		"start_time":   "Monday, March 9, 2026 at 02:30 PM",
		"clinic_name":  "VitaClinic Veterinary Hospital",
		"clinic_phone": "(555) 123-4567",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if subject != "Appointment Confirmation - VitaClinic Veterinary Hospital" {
		t.Errorf("unexpected subject: %q", subject)
	}
	for _, want := range []string{"Maria Lopez", "Rex", "Annual vaccination", "Monday, March 9, 2026 at 02:30 PM", "(555) 123-4567"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestTemplateEngineRenderUnknownTemplate(t *testing.T) {
	e := NewTemplateEngine()
	if _, _, err := e.Render("does-not-exist", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestTemplateEngineLeavesUnmatchedPlaceholders(t *testing.T) {
	e := NewTemplateEngine()
	_, body, err := e.Render("appointment-reminder", map[string]string{"client_name": "Maria"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(body, "{{animal_name}}") {
		t.Error("expected unmatched placeholder to remain")
	}
}

func TestDispatcherSendsExactlyOneConfirmationEmail(t *testing.T) {
	email := &MockEmailSender{}
	sms := &MockSMSSender{}
	d := NewDispatcher(email, sms, zerolog.Nop())

	if err := d.SendConfirmationEmail(context.Background(), testMessage()); err != nil {
		t.Fatalf("SendConfirmationEmail returned error: %v", err)
	}

	calls := email.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 email, got %d", len(calls))
	}
	call := calls[0]
	if call.To != "maria@example.com" {
		t.Errorf("unexpected recipient: %q", call.To)
	}
	for _, want := range []string{"Maria Lopez", "Rex", "Annual vaccination", "Monday, March 9, 2026 at 02:30 PM"} {
		if !strings.Contains(call.Body, want) {
			t.Errorf("email body missing %q:\n%s", want, call.Body)
		}
	}
	if len(sms.Calls()) != 0 {
		t.Errorf("expected no sms, got %d", len(sms.Calls()))
	}
}

func TestDispatcherFallbacksForMissingFields(t *testing.T) {
	email := &MockEmailSender{}
	d := NewDispatcher(email, &MockSMSSender{}, zerolog.Nop())

	msg := testMessage()
	msg.AnimalName = ""
	msg.Reason = ""
	if err := d.SendConfirmationEmail(context.Background(), msg); err != nil {
		t.Fatalf("SendConfirmationEmail returned error: %v", err)
	}

	calls := email.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 email, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Body, "your pet") {
		t.Error("expected animal name fallback 'your pet'")
	}
	if !strings.Contains(calls[0].Body, "checkup") {
		t.Error("expected reason fallback 'checkup'")
	}
}

func TestDispatcherSkipsWhenNoRecipientAddress(t *testing.T) {
	email := &MockEmailSender{}
	sms := &MockSMSSender{}
	d := NewDispatcher(email, sms, zerolog.Nop())

	msg := testMessage()
	msg.ClientEmail = ""
	msg.ClientPhone = ""
	if err := d.SendConfirmationEmail(context.Background(), msg); err != nil {
		t.Fatalf("SendConfirmationEmail returned error: %v", err)
	}
	if err := d.SendReminderSMS(context.Background(), msg); err != nil {
		t.Fatalf("SendReminderSMS returned error: %v", err)
	}
	if len(email.Calls()) != 0 || len(sms.Calls()) != 0 {
		t.Error("expected no delivery attempts without contact details")
	}
}

func TestDispatcherWrapsDeliveryFailure(t *testing.T) {
	email := &MockEmailSender{ShouldFail: true, FailError: "smtp unreachable"}
	d := NewDispatcher(email, &MockSMSSender{}, zerolog.Nop())

	err := d.SendReminderEmail(context.Background(), testMessage())
	if !errors.Is(err, clinicerr.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
}

func TestDispatcherSendsSMS(t *testing.T) {
	sms := &MockSMSSender{}
	d := NewDispatcher(&MockEmailSender{}, sms, zerolog.Nop())

	if err := d.SendConfirmationSMS(context.Background(), testMessage()); err != nil {
		t.Fatalf("SendConfirmationSMS returned error: %v", err)
	}
	calls := sms.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 sms, got %d", len(calls))
	}
	if calls[0].To != "+15550001111" {
		t.Errorf("unexpected recipient: %q", calls[0].To)
	}
	if !strings.Contains(calls[0].Body, "Rex") {
		t.Errorf("sms body missing animal name: %q", calls[0].Body)
	}
}

func TestSendGridSenderWithoutKeyIsNoop(t *testing.T) {
	s := NewSendGridSender("", "noreply@example.com", "VitaClinic", zerolog.Nop())
	if err := s.SendEmail(context.Background(), "to@example.com", "subject", "body"); err != nil {
		t.Fatalf("expected nil error without api key, got %v", err)
	}
}

func TestTwilioSenderWithoutCredentialsIsNoop(t *testing.T) {
	s := NewTwilioSender("", "", "+15550009999", zerolog.Nop())
	if err := s.SendSMS(context.Background(), "+15550001111", "body"); err != nil {
		t.Fatalf("expected nil error without credentials, got %v", err)
	}
}

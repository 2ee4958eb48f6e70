package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/domain/analytics"
	"github.com/vitaclinic/clinic-server/internal/domain/animals"
	"github.com/vitaclinic/clinic-server/internal/domain/appointments"
	"github.com/vitaclinic/clinic-server/internal/domain/clients"
	"github.com/vitaclinic/clinic-server/internal/domain/settings"
	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

func TestClientCascadeDelete(t *testing.T) {
	ctx := context.Background()

	client := createTestClient(t, ctx, "Maria", "Lopez")
	animal := createTestAnimal(t, ctx, client.ID, "Rex", "Dog")
	createTestAppointment(t, ctx, animal.ID, "waiting", time.Now().Add(24*time.Hour))
	createTestMedicalRecord(t, ctx, animal.ID)
	inv := createTestInvoice(t, ctx, animal.ID, client.ID, 120, 0, "pending")

	repo := clients.NewClientRepoPG(globalDB.Pool)
	if err := repo.Delete(ctx, client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	if n := countRows(t, ctx, "clients", "id", client.ID); n != 0 {
		t.Errorf("client survived delete")
	}
	if n := countRows(t, ctx, "animals", "client_id", client.ID); n != 0 {
		t.Errorf("animals survived cascade: %d", n)
	}
	if n := countRows(t, ctx, "appointments", "animal_id", animal.ID); n != 0 {
		t.Errorf("appointments survived cascade: %d", n)
	}
	if n := countRows(t, ctx, "medical_records", "animal_id", animal.ID); n != 0 {
		t.Errorf("medical records survived cascade: %d", n)
	}
	if n := countRows(t, ctx, "invoices", "client_id", client.ID); n != 0 {
		t.Errorf("invoices survived cascade: %d", n)
	}
	if n := countRows(t, ctx, "invoice_items", "invoice_id", inv.ID); n != 0 {
		t.Errorf("invoice items survived cascade: %d", n)
	}
}

func TestAnimalCascadeDelete(t *testing.T) {
	ctx := context.Background()

	client := createTestClient(t, ctx, "James", "Chen")
	animal := createTestAnimal(t, ctx, client.ID, "Whiskers", "Cat")
	createTestAppointment(t, ctx, animal.ID, "waiting", time.Now().Add(48*time.Hour))
	createTestMedicalRecord(t, ctx, animal.ID)
	createTestInvoice(t, ctx, animal.ID, client.ID, 60, 60, "paid")

	repo := animals.NewAnimalRepoPG(globalDB.Pool)
	if err := repo.Delete(ctx, animal.ID); err != nil {
		t.Fatalf("delete animal: %v", err)
	}

	if n := countRows(t, ctx, "animals", "id", animal.ID); n != 0 {
		t.Errorf("animal survived delete")
	}
	if n := countRows(t, ctx, "appointments", "animal_id", animal.ID); n != 0 {
		t.Errorf("appointments survived cascade: %d", n)
	}
	if n := countRows(t, ctx, "invoices", "animal_id", animal.ID); n != 0 {
		t.Errorf("invoices survived cascade: %d", n)
	}
	// The owner is untouched.
	if n := countRows(t, ctx, "clients", "id", client.ID); n != 1 {
		t.Errorf("client deleted along with animal")
	}
}

func TestCreateAnimalWithUnknownOwner(t *testing.T) {
	ctx := context.Background()

	repo := animals.NewAnimalRepoPG(globalDB.Pool)
	a := &animals.Animal{
		ClientID: uuid.New(),
		Name:     "Ghost",
	}
	err := repo.Create(ctx, a)
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected validation error for unknown owner, got %v", err)
	}
}

func TestAppointmentStatusGuard(t *testing.T) {
	ctx := context.Background()

	client := createTestClient(t, ctx, "Elena", "Petrova")
	animal := createTestAnimal(t, ctx, client.ID, "Bruno", "Dog")
	appt := createTestAppointment(t, ctx, animal.ID, "waiting", time.Now().Add(72*time.Hour))

	repo := appointments.NewAppointmentRepoPG(globalDB.Pool)
	updated, err := repo.UpdateStatus(ctx, appt.ID, "waiting", "confirmed")
	if err != nil {
		t.Fatalf("waiting -> confirmed: %v", err)
	}
	if updated.Status != "confirmed" {
		t.Errorf("expected confirmed, got %q", updated.Status)
	}

	// The guard on the old status must reject a second identical move.
	if _, err := repo.UpdateStatus(ctx, appt.ID, "waiting", "confirmed"); !errors.Is(err, clinicerr.ErrConflict) {
		t.Errorf("expected conflict on stale status guard, got %v", err)
	}
}

func TestSettingsSeededOnce(t *testing.T) {
	ctx := context.Background()

	repo := settings.NewSettingsRepoPG(globalDB.Pool)
	first, err := repo.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if first.ClinicName != "VitaClinic Veterinary Hospital" {
		t.Errorf("unexpected default clinic name %q", first.ClinicName)
	}
	if first.EmailNotificationsEnabled || first.SMSNotificationsEnabled {
		t.Errorf("notifications should default off")
	}

	second, err := repo.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second.ClinicName != first.ClinicName || second.VersionID != first.VersionID {
		t.Errorf("second read produced a different row")
	}

	var n int
	if err := globalDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM clinic_settings").Scan(&n); err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly 1 settings row, got %d", n)
	}
}

func TestDashboardAggregatesRevenue(t *testing.T) {
	ctx := context.Background()

	client := createTestClient(t, ctx, "Ana", "Silva")
	animal := createTestAnimal(t, ctx, client.ID, "Mia", "Cat")
	createTestInvoice(t, ctx, animal.ID, client.ID, 100, 100, "paid")
	createTestInvoice(t, ctx, animal.ID, client.ID, 50, 20, "pending")

	repo := analytics.NewRepoPG(globalDB.Pool)
	total, pending, err := repo.RevenueTotals(ctx)
	if err != nil {
		t.Fatalf("revenue totals: %v", err)
	}
	if total < 120 {
		t.Errorf("expected at least 120 collected, got %v", total)
	}
	if pending < 30 {
		t.Errorf("expected at least 30 outstanding, got %v", pending)
	}
}

package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type mockRepo struct {
	row     *ClinicSettings
	creates int
}

func (m *mockRepo) GetOrCreate(_ context.Context) (*ClinicSettings, error) {
	if m.row == nil {
		def := Defaults()
		def.VersionID = 1
		def.CreatedAt = time.Now()
		def.UpdatedAt = time.Now()
		m.row = &def
		m.creates++
	}
	cp := *m.row
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, s *ClinicSettings) error {
	if m.row == nil {
		return clinicerr.ErrNotFound
	}
	if m.row.VersionID != s.VersionID {
		return clinicerr.ErrConflict
	}
	s.VersionID++
	cp := *s
	m.row = &cp
	return nil
}

func TestGetSettingsSeedsDefaults(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	s, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if s.ClinicName != "VitaClinic Veterinary Hospital" {
		t.Errorf("unexpected default clinic name: %q", s.ClinicName)
	}
	if s.Phone == nil || *s.Phone != "(555) 123-4567" {
		t.Error("unexpected default phone")
	}
	if s.EmailNotificationsEnabled || s.SMSNotificationsEnabled {
		t.Error("notifications must default to disabled")
	}
	if s.AppointmentReminderHours != 24 {
		t.Errorf("expected 24h reminder default, got %d", s.AppointmentReminderHours)
	}

	// Second read returns the same row without reseeding.
	if _, err := svc.GetSettings(context.Background()); err != nil {
		t.Fatalf("second GetSettings returned error: %v", err)
	}
	if repo.creates != 1 {
		t.Errorf("expected a single seed, got %d", repo.creates)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	svc := NewService(&mockRepo{})

	err := svc.UpdateSettings(context.Background(), &ClinicSettings{})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}

	err = svc.UpdateSettings(context.Background(), &ClinicSettings{ClinicName: "VitaClinic", AppointmentReminderHours: -1})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative reminder hours, got %v", err)
	}
}

func TestUpdateSettingsSeedsBeforeWrite(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	update := ClinicSettings{ClinicName: "New Name", AppointmentReminderHours: 48, VersionID: 1}
	if err := svc.UpdateSettings(context.Background(), &update); err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	if repo.row.ClinicName != "New Name" {
		t.Errorf("expected updated name, got %q", repo.row.ClinicName)
	}
}

func TestUpdateSettingsStaleVersion(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	svc.GetSettings(context.Background())

	stale := ClinicSettings{ClinicName: "VitaClinic", VersionID: 99}
	err := svc.UpdateSettings(context.Background(), &stale)
	if !errors.Is(err, clinicerr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

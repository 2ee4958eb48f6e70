package settings

import (
	"context"
	"fmt"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type Service struct {
	repo SettingsRepository
}

func NewService(repo SettingsRepository) *Service {
	return &Service{repo: repo}
}

// GetSettings returns the clinic settings, creating the default row on first
// read.
func (s *Service) GetSettings(ctx context.Context) (*ClinicSettings, error) {
	return s.repo.GetOrCreate(ctx)
}

// UpdateSettings replaces the settings row.
func (s *Service) UpdateSettings(ctx context.Context, cs *ClinicSettings) error {
	if cs.ClinicName == "" {
		return fmt.Errorf("%w: clinic_name is required", clinicerr.ErrValidation)
	}
	if cs.AppointmentReminderHours < 0 {
		return fmt.Errorf("%w: appointment_reminder_hours cannot be negative", clinicerr.ErrValidation)
	}
	// An update against a database that has never been read still targets
	// the singleton row, so seed it first.
	if _, err := s.repo.GetOrCreate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, cs)
}

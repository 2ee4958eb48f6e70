package settings

import "context"

type SettingsRepository interface {
	// GetOrCreate returns the settings row, seeding the defaults on first
	// read. Concurrent first reads must still produce exactly one row.
	GetOrCreate(ctx context.Context) (*ClinicSettings, error)
	Update(ctx context.Context, s *ClinicSettings) error
}

package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
	"github.com/vitaclinic/clinic-server/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type settingsRepoPG struct{ pool *pgxpool.Pool }

func NewSettingsRepoPG(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepoPG{pool: pool}
}

func (r *settingsRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const settingsCols = `clinic_name, address, phone, email, website, logo,
	email_notifications_enabled, sms_notifications_enabled, appointment_reminder_hours,
	business_hours, version_id, created_at, updated_at`

func (r *settingsRepoPG) scanRow(row pgx.Row) (*ClinicSettings, error) {
	var s ClinicSettings
	err := row.Scan(&s.ClinicName, &s.Address, &s.Phone, &s.Email, &s.Website, &s.Logo,
		&s.EmailNotificationsEnabled, &s.SMSNotificationsEnabled, &s.AppointmentReminderHours,
		&s.BusinessHours, &s.VersionID, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.ErrNotFound
	}
	return &s, err
}

func (r *settingsRepoPG) GetOrCreate(ctx context.Context) (*ClinicSettings, error) {
	def := Defaults()
	// ON CONFLICT DO NOTHING makes concurrent first reads race safely; the
	// singleton primary key guarantees one row either way.
	if _, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO clinic_settings (singleton, clinic_name, address, phone, email,
			appointment_reminder_hours, business_hours)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (singleton) DO NOTHING`,
		def.ClinicName, def.Address, def.Phone, def.Email,
		def.AppointmentReminderHours, def.BusinessHours); err != nil {
		return nil, err
	}
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+settingsCols+` FROM clinic_settings WHERE singleton`))
}

func (r *settingsRepoPG) Update(ctx context.Context, s *ClinicSettings) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinic_settings SET clinic_name=$1, address=$2, phone=$3, email=$4,
			website=$5, logo=$6, email_notifications_enabled=$7, sms_notifications_enabled=$8,
			appointment_reminder_hours=$9, business_hours=$10,
			version_id = version_id + 1, updated_at=NOW()
		WHERE singleton AND version_id = $11`,
		s.ClinicName, s.Address, s.Phone, s.Email,
		s.Website, s.Logo, s.EmailNotificationsEnabled, s.SMSNotificationsEnabled,
		s.AppointmentReminderHours, s.BusinessHours, s.VersionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clinic_settings WHERE singleton)`).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return clinicerr.ErrNotFound
		}
		return clinicerr.ErrConflict
	}
	s.VersionID++
	return nil
}

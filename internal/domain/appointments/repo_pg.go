package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
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

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appointmentCols = `id, animal_id, veterinarian_id, pet_name, owner_name, veterinarian_name,
	appointment_type, scheduled_at, status, description, notes,
	version_id, created_at, updated_at`

func (r *appointmentRepoPG) scanRow(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.AnimalID, &a.VeterinarianID, &a.PetName, &a.OwnerName, &a.VeterinarianName,
		&a.AppointmentType, &a.ScheduledAt, &a.Status, &a.Description, &a.Notes,
		&a.VersionID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.ErrNotFound
	}
	return &a, err
}

func mapFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: referenced record does not exist", clinicerr.ErrValidation)
	}
	return err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, animal_id, veterinarian_id, pet_name, owner_name,
			veterinarian_name, appointment_type, scheduled_at, status, description, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING version_id, created_at, updated_at`,
		a.ID, a.AnimalID, a.VeterinarianID, a.PetName, a.OwnerName,
		a.VeterinarianName, a.AppointmentType, a.ScheduledAt, a.Status, a.Description, a.Notes).
		Scan(&a.VersionID, &a.CreatedAt, &a.UpdatedAt)
	return mapFKViolation(err)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET animal_id=$2, veterinarian_id=$3, pet_name=$4, owner_name=$5,
			veterinarian_name=$6, appointment_type=$7, scheduled_at=$8, status=$9,
			description=$10, notes=$11, version_id = version_id + 1, updated_at=NOW()
		WHERE id = $1 AND version_id = $12`,
		a.ID, a.AnimalID, a.VeterinarianID, a.PetName, a.OwnerName,
		a.VeterinarianName, a.AppointmentType, a.ScheduledAt, a.Status,
		a.Description, a.Notes, a.VersionID)
	if err != nil {
		return mapFKViolation(err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return clinicerr.ErrNotFound
		}
		return clinicerr.ErrConflict
	}
	a.VersionID++
	return nil
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*Appointment, error) {
	a, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments SET status=$3, version_id = version_id + 1, updated_at=NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+appointmentCols, id, from, to))
	if errors.Is(err, clinicerr.ErrNotFound) {
		var exists bool
		if qerr := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); qerr != nil {
			return nil, qerr
		}
		if !exists {
			return nil, clinicerr.ErrNotFound
		}
		return nil, clinicerr.ErrConflict
	}
	return a, err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinicerr.ErrNotFound
	}
	return nil
}

func (r *appointmentRepoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+appointmentCols+` FROM appointments ORDER BY scheduled_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *appointmentRepoPG) ListBetween(ctx context.Context, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE scheduled_at >= $1 AND scheduled_at < $2 ORDER BY scheduled_at`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *appointmentRepoPG) ListByAnimal(ctx context.Context, animalID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE animal_id = $1 ORDER BY scheduled_at DESC`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *appointmentRepoPG) collect(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

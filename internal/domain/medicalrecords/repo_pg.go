package medicalrecords

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

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewMedicalRecordRepoPG(pool *pgxpool.Pool) MedicalRecordRepository {
	return &recordRepoPG{pool: pool}
}

func (r *recordRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const recordCols = `m.id, m.animal_id, m.appointment_id, m.veterinarian_id, m.diagnosis,
	m.treatment, m.medication, m.notes, m.next_checkup_date, m.record_date,
	m.version_id, m.created_at, m.updated_at, a.name AS animal_name`

const recordFrom = ` FROM medical_records m JOIN animals a ON a.id = m.animal_id`

func (r *recordRepoPG) scanRow(row pgx.Row) (*MedicalRecord, error) {
	var rec MedicalRecord
	err := row.Scan(&rec.ID, &rec.AnimalID, &rec.AppointmentID, &rec.VeterinarianID, &rec.Diagnosis,
		&rec.Treatment, &rec.Medication, &rec.Notes, &rec.NextCheckupDate, &rec.RecordDate,
		&rec.VersionID, &rec.CreatedAt, &rec.UpdatedAt, &rec.AnimalName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.ErrNotFound
	}
	return &rec, err
}

func mapFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: referenced record does not exist", clinicerr.ErrValidation)
	}
	return err
}

func (r *recordRepoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	rec.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_records (id, animal_id, appointment_id, veterinarian_id, diagnosis,
			treatment, medication, notes, next_checkup_date, record_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, COALESCE($10, NOW()))
		RETURNING record_date, version_id, created_at, updated_at`,
		rec.ID, rec.AnimalID, rec.AppointmentID, rec.VeterinarianID, rec.Diagnosis,
		rec.Treatment, rec.Medication, rec.Notes, rec.NextCheckupDate, nullableTime(rec.RecordDate)).
		Scan(&rec.RecordDate, &rec.VersionID, &rec.CreatedAt, &rec.UpdatedAt)
	return mapFKViolation(err)
}

// nullableTime lets the database default kick in when the caller did not
// supply a record date.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func (r *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+recordCols+recordFrom+` WHERE m.id = $1`, id))
}

func (r *recordRepoPG) Update(ctx context.Context, rec *MedicalRecord) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_records SET animal_id=$2, appointment_id=$3, veterinarian_id=$4,
			diagnosis=$5, treatment=$6, medication=$7, notes=$8, next_checkup_date=$9,
			record_date=$10, version_id = version_id + 1, updated_at=NOW()
		WHERE id = $1 AND version_id = $11`,
		rec.ID, rec.AnimalID, rec.AppointmentID, rec.VeterinarianID,
		rec.Diagnosis, rec.Treatment, rec.Medication, rec.Notes, rec.NextCheckupDate,
		rec.RecordDate, rec.VersionID)
	if err != nil {
		return mapFKViolation(err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM medical_records WHERE id = $1)`, rec.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return clinicerr.ErrNotFound
		}
		return clinicerr.ErrConflict
	}
	rec.VersionID++
	return nil
}

func (r *recordRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinicerr.ErrNotFound
	}
	return nil
}

func (r *recordRepoPG) List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_records`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+recordFrom+` ORDER BY m.record_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *recordRepoPG) ListByAnimal(ctx context.Context, animalID uuid.UUID) ([]*MedicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+recordFrom+` WHERE m.animal_id = $1 ORDER BY m.record_date DESC`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *recordRepoPG) collect(rows pgx.Rows, total int) ([]*MedicalRecord, int, error) {
	var items []*MedicalRecord
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

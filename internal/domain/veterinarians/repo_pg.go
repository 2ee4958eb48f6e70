package veterinarians

import (
	"context"
	"errors"

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

type vetRepoPG struct{ pool *pgxpool.Pool }

func NewVeterinarianRepoPG(pool *pgxpool.Pool) VeterinarianRepository {
	return &vetRepoPG{pool: pool}
}

func (r *vetRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const vetCols = `id, first_name, last_name, email, phone, license_number, specialization,
	is_active, hire_date, version_id, created_at, updated_at`

func (r *vetRepoPG) scanRow(row pgx.Row) (*Veterinarian, error) {
	var v Veterinarian
	err := row.Scan(&v.ID, &v.FirstName, &v.LastName, &v.Email, &v.Phone, &v.LicenseNumber,
		&v.Specialization, &v.IsActive, &v.HireDate, &v.VersionID, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.ErrNotFound
	}
	return &v, err
}

func (r *vetRepoPG) Create(ctx context.Context, v *Veterinarian) error {
	v.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO veterinarians (id, first_name, last_name, email, phone, license_number,
			specialization, is_active, hire_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING version_id, created_at, updated_at`,
		v.ID, v.FirstName, v.LastName, v.Email, v.Phone, v.LicenseNumber,
		v.Specialization, v.IsActive, v.HireDate).
		Scan(&v.VersionID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *vetRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Veterinarian, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+vetCols+` FROM veterinarians WHERE id = $1`, id))
}

func (r *vetRepoPG) Update(ctx context.Context, v *Veterinarian) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE veterinarians SET first_name=$2, last_name=$3, email=$4, phone=$5,
			license_number=$6, specialization=$7, is_active=$8, hire_date=$9,
			version_id = version_id + 1, updated_at=NOW()
		WHERE id = $1 AND version_id = $10`,
		v.ID, v.FirstName, v.LastName, v.Email, v.Phone,
		v.LicenseNumber, v.Specialization, v.IsActive, v.HireDate, v.VersionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM veterinarians WHERE id = $1)`, v.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return clinicerr.ErrNotFound
		}
		return clinicerr.ErrConflict
	}
	v.VersionID++
	return nil
}

// Delete removes the veterinarian. Appointments and medical records keep
// their rows; the schema nulls the reference out.
func (r *vetRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM veterinarians WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return clinicerr.ErrNotFound
	}
	return nil
}

func (r *vetRepoPG) List(ctx context.Context, limit, offset int) ([]*Veterinarian, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM veterinarians`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+vetCols+` FROM veterinarians ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Veterinarian
	for rows.Next() {
		v, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}

package animals

import (
	"context"
	"errors"
	"fmt"

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

type animalRepoPG struct{ pool *pgxpool.Pool }

func NewAnimalRepoPG(pool *pgxpool.Pool) AnimalRepository {
	return &animalRepoPG{pool: pool}
}

func (r *animalRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const animalCols = `a.id, a.client_id, a.name, a.species, a.breed, a.date_of_birth, a.gender,
	a.color, a.weight, a.chip_id, a.vaccination_records, a.allergies,
	a.version_id, a.created_at, a.updated_at,
	c.first_name || ' ' || c.last_name AS owner_name`

const animalFrom = ` FROM animals a JOIN clients c ON c.id = a.client_id`

func (r *animalRepoPG) scanRow(row pgx.Row) (*Animal, error) {
	var a Animal
	err := row.Scan(&a.ID, &a.ClientID, &a.Name, &a.Species, &a.Breed, &a.DateOfBirth, &a.Gender,
		&a.Color, &a.Weight, &a.ChipID, &a.VaccinationRecords, &a.Allergies,
		&a.VersionID, &a.CreatedAt, &a.UpdatedAt, &a.OwnerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.ErrNotFound
	}
	return &a, err
}

// mapFKViolation turns a foreign-key violation into a validation error so
// callers see an unresolved reference, not a bare SQLSTATE.
func mapFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: referenced record does not exist", clinicerr.ErrValidation)
	}
	return err
}

func (r *animalRepoPG) Create(ctx context.Context, a *Animal) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO animals (id, client_id, name, species, breed, date_of_birth, gender,
			color, weight, chip_id, vaccination_records, allergies)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING version_id, created_at, updated_at`,
		a.ID, a.ClientID, a.Name, a.Species, a.Breed, a.DateOfBirth, a.Gender,
		a.Color, a.Weight, a.ChipID, a.VaccinationRecords, a.Allergies).
		Scan(&a.VersionID, &a.CreatedAt, &a.UpdatedAt)
	return mapFKViolation(err)
}

func (r *animalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Animal, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+animalCols+animalFrom+` WHERE a.id = $1`, id))
}

func (r *animalRepoPG) Update(ctx context.Context, a *Animal) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE animals SET client_id=$2, name=$3, species=$4, breed=$5, date_of_birth=$6,
			gender=$7, color=$8, weight=$9, chip_id=$10, vaccination_records=$11,
			allergies=$12, version_id = version_id + 1, updated_at=NOW()
		WHERE id = $1 AND version_id = $13`,
		a.ID, a.ClientID, a.Name, a.Species, a.Breed, a.DateOfBirth,
		a.Gender, a.Color, a.Weight, a.ChipID, a.VaccinationRecords,
		a.Allergies, a.VersionID)
	if err != nil {
		return mapFKViolation(err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM animals WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
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

func (r *animalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	run := func(ctx context.Context) error {
		conn := r.conn(ctx)
		steps := []string{
			`DELETE FROM invoice_items WHERE invoice_id IN (SELECT id FROM invoices WHERE animal_id = $1)`,
			`DELETE FROM invoices WHERE animal_id = $1`,
			`DELETE FROM medical_records WHERE animal_id = $1`,
			`DELETE FROM appointments WHERE animal_id = $1`,
		}
		for _, stmt := range steps {
			if _, err := conn.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("cascade delete animal %s: %w", id, err)
			}
		}
		tag, err := conn.Exec(ctx, `DELETE FROM animals WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return clinicerr.ErrNotFound
		}
		return nil
	}
	if db.TxFromContext(ctx) != nil {
		return run(ctx)
	}
	return db.WithTx(ctx, r.pool, run)
}

func (r *animalRepoPG) List(ctx context.Context, limit, offset int) ([]*Animal, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM animals`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+animalCols+animalFrom+` ORDER BY a.name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *animalRepoPG) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Animal, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+animalCols+animalFrom+` WHERE a.client_id = $1 ORDER BY a.name`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *animalRepoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Animal, int, error) {
	pattern := "%" + query + "%"
	where := ` WHERE a.name ILIKE $1 OR a.species ILIKE $1 OR a.breed ILIKE $1
		OR c.first_name ILIKE $1 OR c.last_name ILIKE $1`

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*)`+animalFrom+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+animalCols+animalFrom+where+` ORDER BY a.name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *animalRepoPG) collect(rows pgx.Rows, total int) ([]*Animal, int, error) {
	var items []*Animal
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

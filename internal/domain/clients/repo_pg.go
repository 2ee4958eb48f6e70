package clients

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

type clientRepoPG struct{ pool *pgxpool.Pool }

func NewClientRepoPG(pool *pgxpool.Pool) ClientRepository {
	return &clientRepoPG{pool: pool}
}

func (r *clientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const clientCols = `id, first_name, last_name, email, phone, address, status, join_date,
	version_id, created_at, updated_at`

func (r *clientRepoPG) scanRow(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.Status, &c.JoinDate, &c.VersionID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.ErrNotFound
	}
	return &c, err
}

func (r *clientRepoPG) Create(ctx context.Context, c *Client) error {
	c.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clients (id, first_name, last_name, email, phone, address, status, join_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING version_id, created_at, updated_at`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.Status, c.JoinDate).
		Scan(&c.VersionID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *clientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id = $1`, id))
}

func (r *clientRepoPG) Update(ctx context.Context, c *Client) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE clients SET first_name=$2, last_name=$3, email=$4, phone=$5, address=$6,
			status=$7, join_date=$8, version_id = version_id + 1, updated_at=NOW()
		WHERE id = $1 AND version_id = $9`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.Status, c.JoinDate,
		c.VersionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, c.ID)
	}
	c.VersionID++
	return nil
}

// staleOrMissing distinguishes a vanished row from a version mismatch after a
// guarded update touched nothing.
func (r *clientRepoPG) staleOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return clinicerr.ErrNotFound
	}
	return clinicerr.ErrConflict
}

func (r *clientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	run := func(ctx context.Context) error {
		conn := r.conn(ctx)
		steps := []string{
			`DELETE FROM invoice_items WHERE invoice_id IN (
				SELECT id FROM invoices WHERE client_id = $1
					OR animal_id IN (SELECT id FROM animals WHERE client_id = $1))`,
			`DELETE FROM invoices WHERE client_id = $1
				OR animal_id IN (SELECT id FROM animals WHERE client_id = $1)`,
			`DELETE FROM medical_records WHERE animal_id IN (SELECT id FROM animals WHERE client_id = $1)`,
			`DELETE FROM appointments WHERE animal_id IN (SELECT id FROM animals WHERE client_id = $1)`,
			`DELETE FROM animals WHERE client_id = $1`,
		}
		for _, stmt := range steps {
			if _, err := conn.Exec(ctx, stmt, id); err != nil {
				return fmt.Errorf("cascade delete client %s: %w", id, err)
			}
		}
		tag, err := conn.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
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

func (r *clientRepoPG) List(ctx context.Context, limit, offset int) ([]*Client, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+clientCols+` FROM clients ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *clientRepoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Client, int, error) {
	pattern := "%" + query + "%"
	where := `first_name ILIKE $1 OR last_name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1`

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE `+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+clientCols+` FROM clients WHERE `+where+` ORDER BY last_name, first_name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *clientRepoPG) collect(rows pgx.Rows, total int) ([]*Client, int, error) {
	var items []*Client
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

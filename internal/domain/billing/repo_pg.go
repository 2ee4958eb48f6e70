package billing

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

type invoiceRepoPG struct{ pool *pgxpool.Pool }

func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepoPG{pool: pool}
}

func (r *invoiceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invoiceCols = `id, animal_id, client_id, appointment_id, invoice_number, invoice_date,
	due_date, total_amount, paid_amount, status, payment_method, notes,
	version_id, created_at, updated_at`

const itemCols = `id, invoice_id, service_name, description, quantity, unit_price, total_price`

func (r *invoiceRepoPG) scanRow(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.AnimalID, &inv.ClientID, &inv.AppointmentID, &inv.InvoiceNumber,
		&inv.InvoiceDate, &inv.DueDate, &inv.TotalAmount, &inv.PaidAmount, &inv.Status,
		&inv.PaymentMethod, &inv.Notes, &inv.VersionID, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, clinicerr.ErrNotFound
	}
	return &inv, err
}

func (r *invoiceRepoPG) scanItem(row pgx.Row) (*InvoiceItem, error) {
	var it InvoiceItem
	err := row.Scan(&it.ID, &it.InvoiceID, &it.ServiceName, &it.Description,
		&it.Quantity, &it.UnitPrice, &it.TotalPrice)
	if err == nil {
		it.ComputeLineTotal()
	}
	return &it, err
}

func mapFKViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: referenced record does not exist", clinicerr.ErrValidation)
	}
	return err
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice) error {
	run := func(ctx context.Context) error {
		inv.ID = uuid.New()
		err := r.conn(ctx).QueryRow(ctx, `
			INSERT INTO invoices (id, animal_id, client_id, appointment_id, invoice_number,
				due_date, total_amount, paid_amount, status, payment_method, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			RETURNING invoice_date, version_id, created_at, updated_at`,
			inv.ID, inv.AnimalID, inv.ClientID, inv.AppointmentID, inv.InvoiceNumber,
			inv.DueDate, inv.TotalAmount, inv.PaidAmount, inv.Status, inv.PaymentMethod, inv.Notes).
			Scan(&inv.InvoiceDate, &inv.VersionID, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return mapFKViolation(err)
		}
		return r.insertItems(ctx, inv)
	}
	if db.TxFromContext(ctx) != nil {
		return run(ctx)
	}
	return db.WithTx(ctx, r.pool, run)
}

func (r *invoiceRepoPG) insertItems(ctx context.Context, inv *Invoice) error {
	for _, it := range inv.Items {
		it.ID = uuid.New()
		it.InvoiceID = inv.ID
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, service_name, description, quantity, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			it.ID, it.InvoiceID, it.ServiceName, it.Description, it.Quantity, it.UnitPrice, it.TotalPrice); err != nil {
			return err
		}
		it.ComputeLineTotal()
	}
	return nil
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepoPG) loadItems(ctx context.Context, inv *Invoice) error {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM invoice_items WHERE invoice_id = $1 ORDER BY service_name`, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return err
		}
		inv.Items = append(inv.Items, it)
	}
	return rows.Err()
}

func (r *invoiceRepoPG) Update(ctx context.Context, inv *Invoice) error {
	run := func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			UPDATE invoices SET animal_id=$2, client_id=$3, appointment_id=$4, invoice_number=$5,
				invoice_date=$6, due_date=$7, total_amount=$8, paid_amount=$9, status=$10,
				payment_method=$11, notes=$12, version_id = version_id + 1, updated_at=NOW()
			WHERE id = $1 AND version_id = $13`,
			inv.ID, inv.AnimalID, inv.ClientID, inv.AppointmentID, inv.InvoiceNumber,
			inv.InvoiceDate, inv.DueDate, inv.TotalAmount, inv.PaidAmount, inv.Status,
			inv.PaymentMethod, inv.Notes, inv.VersionID)
		if err != nil {
			return mapFKViolation(err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, inv.ID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return clinicerr.ErrNotFound
			}
			return clinicerr.ErrConflict
		}
		inv.VersionID++

		// Full replace of the item set.
		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		return r.insertItems(ctx, inv)
	}
	if db.TxFromContext(ctx) != nil {
		return run(ctx)
	}
	return db.WithTx(ctx, r.pool, run)
}

func (r *invoiceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	run := func(ctx context.Context) error {
		if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
			return err
		}
		tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
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

func (r *invoiceRepoPG) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoices ORDER BY invoice_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *invoiceRepoPG) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Invoice, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE client_id = $1 ORDER BY invoice_date DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *invoiceRepoPG) ListByAnimal(ctx context.Context, animalID uuid.UUID) ([]*Invoice, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE animal_id = $1 ORDER BY invoice_date DESC`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *invoiceRepoPG) collect(rows pgx.Rows, total int) ([]*Invoice, int, error) {
	var items []*Invoice
	for rows.Next() {
		inv, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, rows.Err()
}

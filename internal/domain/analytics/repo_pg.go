package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) EntityCounts(ctx context.Context) (totalClients, activeClients, totalAnimals, totalAppointments int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM clients WHERE status = 'active'),
			(SELECT COUNT(*) FROM animals),
			(SELECT COUNT(*) FROM appointments)`).
		Scan(&totalClients, &activeClients, &totalAnimals, &totalAppointments)
	return
}

func (r *repoPG) AppointmentsBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE scheduled_at >= $1 AND scheduled_at < $2`,
		from, to).Scan(&count)
	return count, err
}

func (r *repoPG) RevenueTotals(ctx context.Context) (total, pending float64, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN total_amount - paid_amount ELSE 0 END), 0)
		FROM invoices`).Scan(&total, &pending)
	return
}

func (r *repoPG) AppointmentsByType(ctx context.Context) ([]CountByLabel, error) {
	return r.countByLabel(ctx, `
		SELECT COALESCE(appointment_type, 'Unknown'), COUNT(*)
		FROM appointments GROUP BY 1 ORDER BY 2 DESC, 1`)
}

func (r *repoPG) AppointmentsByStatus(ctx context.Context) ([]CountByLabel, error) {
	return r.countByLabel(ctx, `
		SELECT status, COUNT(*) FROM appointments GROUP BY 1 ORDER BY 2 DESC, 1`)
}

func (r *repoPG) SpeciesDistribution(ctx context.Context) ([]CountByLabel, error) {
	return r.countByLabel(ctx, `
		SELECT COALESCE(species, 'Unknown'), COUNT(*)
		FROM animals GROUP BY 1 ORDER BY 2 DESC, 1`)
}

func (r *repoPG) countByLabel(ctx context.Context, sql string) ([]CountByLabel, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []CountByLabel
	for rows.Next() {
		var c CountByLabel
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repoPG) MonthlyAppointments(ctx context.Context, from time.Time) ([]MonthlyCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM scheduled_at)::int, EXTRACT(MONTH FROM scheduled_at)::int, COUNT(*)
		FROM appointments WHERE scheduled_at >= $1
		GROUP BY 1, 2 ORDER BY 1, 2`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []MonthlyCount
	for rows.Next() {
		var m MonthlyCount
		if err := rows.Scan(&m.Year, &m.Month, &m.Count); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *repoPG) RevenueByMonth(ctx context.Context, from time.Time) ([]MonthlyRevenue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM invoice_date)::int, EXTRACT(MONTH FROM invoice_date)::int,
			COALESCE(SUM(paid_amount), 0)
		FROM invoices WHERE invoice_date >= $1
		GROUP BY 1, 2 ORDER BY 1, 2`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []MonthlyRevenue
	for rows.Next() {
		var m MonthlyRevenue
		if err := rows.Scan(&m.Year, &m.Month, &m.Revenue); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

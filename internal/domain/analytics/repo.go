package analytics

import (
	"context"
	"time"
)

// Repository is the read-side aggregation surface. Every call goes to the
// store; nothing is cached.
type Repository interface {
	EntityCounts(ctx context.Context) (totalClients, activeClients, totalAnimals, totalAppointments int, err error)
	AppointmentsBetween(ctx context.Context, from, to time.Time) (int, error)
	RevenueTotals(ctx context.Context) (total, pending float64, err error)
	AppointmentsByType(ctx context.Context) ([]CountByLabel, error)
	AppointmentsByStatus(ctx context.Context) ([]CountByLabel, error)
	SpeciesDistribution(ctx context.Context) ([]CountByLabel, error)
	MonthlyAppointments(ctx context.Context, from time.Time) ([]MonthlyCount, error)
	RevenueByMonth(ctx context.Context, from time.Time) ([]MonthlyRevenue, error)
}

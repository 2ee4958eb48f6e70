package analytics

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// trailingMonths is how far back the monthly trend endpoints look,
// including the current month.
const trailingMonths = 6

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekStart returns the most recent Sunday midnight at or before t.
func weekStart(t time.Time) time.Time {
	return midnight(t).AddDate(0, 0, -int(t.Weekday()))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Dashboard assembles the headline stats. The calendar windows are derived
// from the clock: today, the Sunday-start week, and the calendar month.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	stats.TotalClients, stats.ActiveClients, stats.TotalAnimals, stats.TotalAppointments, err = s.repo.EntityCounts(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	day := midnight(now)
	if stats.AppointmentsToday, err = s.repo.AppointmentsBetween(ctx, day, day.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	week := weekStart(now)
	if stats.AppointmentsThisWeek, err = s.repo.AppointmentsBetween(ctx, week, week.AddDate(0, 0, 7)); err != nil {
		return nil, err
	}
	month := monthStart(now)
	if stats.AppointmentsThisMonth, err = s.repo.AppointmentsBetween(ctx, month, month.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}

	if stats.TotalRevenue, stats.PendingRevenue, err = s.repo.RevenueTotals(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) AppointmentsByType(ctx context.Context) ([]CountByLabel, error) {
	return s.repo.AppointmentsByType(ctx)
}

func (s *Service) AppointmentsByStatus(ctx context.Context) ([]CountByLabel, error) {
	return s.repo.AppointmentsByStatus(ctx)
}

// SpeciesDistribution is ordered by count, most common species first.
func (s *Service) SpeciesDistribution(ctx context.Context) ([]CountByLabel, error) {
	return s.repo.SpeciesDistribution(ctx)
}

// MonthlyAppointments returns one entry per month for the trailing six
// months, oldest first, with zeroes for quiet months.
func (s *Service) MonthlyAppointments(ctx context.Context) ([]MonthlyCount, error) {
	from := monthStart(s.now()).AddDate(0, -(trailingMonths - 1), 0)
	raw, err := s.repo.MonthlyAppointments(ctx, from)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[[2]int]int, len(raw))
	for _, m := range raw {
		byMonth[[2]int{m.Year, m.Month}] = m.Count
	}

	result := make([]MonthlyCount, 0, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		t := from.AddDate(0, i, 0)
		result = append(result, MonthlyCount{
			Year:  t.Year(),
			Month: int(t.Month()),
			Count: byMonth[[2]int{t.Year(), int(t.Month())}],
		})
	}
	return result, nil
}

// RevenueByMonth mirrors MonthlyAppointments for collected revenue.
func (s *Service) RevenueByMonth(ctx context.Context) ([]MonthlyRevenue, error) {
	from := monthStart(s.now()).AddDate(0, -(trailingMonths - 1), 0)
	raw, err := s.repo.RevenueByMonth(ctx, from)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[[2]int]float64, len(raw))
	for _, m := range raw {
		byMonth[[2]int{m.Year, m.Month}] = m.Revenue
	}

	result := make([]MonthlyRevenue, 0, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		t := from.AddDate(0, i, 0)
		result = append(result, MonthlyRevenue{
			Year:    t.Year(),
			Month:   int(t.Month()),
			Revenue: byMonth[[2]int{t.Year(), int(t.Month())}],
		})
	}
	return result, nil
}

package analytics

// DashboardStats is the headline view: entity counts, appointment load for
// the current day, week and month, and revenue totals.
type DashboardStats struct {
	TotalClients          int     `json:"total_clients"`
	ActiveClients         int     `json:"active_clients"`
	TotalAnimals          int     `json:"total_animals"`
	TotalAppointments     int     `json:"total_appointments"`
	AppointmentsToday     int     `json:"appointments_today"`
	AppointmentsThisWeek  int     `json:"appointments_this_week"`
	AppointmentsThisMonth int     `json:"appointments_this_month"`
	TotalRevenue          float64 `json:"total_revenue"`
	PendingRevenue        float64 `json:"pending_revenue"`
}

// CountByLabel is one slice of a categorical breakdown.
type CountByLabel struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthlyCount is one month of appointment volume.
type MonthlyCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// MonthlyRevenue is one month of collected revenue.
type MonthlyRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

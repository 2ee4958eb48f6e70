package settings

import "time"

// ClinicSettings is the single row of the clinic_settings table. The first
// read creates it with these defaults; there is never more than one row.
type ClinicSettings struct {
	ClinicName                string    `db:"clinic_name" json:"clinic_name"`
	Address                   *string   `db:"address" json:"address,omitempty"`
	Phone                     *string   `db:"phone" json:"phone,omitempty"`
	Email                     *string   `db:"email" json:"email,omitempty"`
	Website                   *string   `db:"website" json:"website,omitempty"`
	Logo                      *string   `db:"logo" json:"logo,omitempty"`
	EmailNotificationsEnabled bool      `db:"email_notifications_enabled" json:"email_notifications_enabled"`
	SMSNotificationsEnabled   bool      `db:"sms_notifications_enabled" json:"sms_notifications_enabled"`
	AppointmentReminderHours  int       `db:"appointment_reminder_hours" json:"appointment_reminder_hours"`
	BusinessHours             *string   `db:"business_hours" json:"business_hours,omitempty"`
	VersionID                 int       `db:"version_id" json:"version_id"`
	CreatedAt                 time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time `db:"updated_at" json:"updated_at"`
}

// Defaults returns the settings seeded on first read.
func Defaults() ClinicSettings {
	address := "123 Pet Care Street"
	phone := "(555) 123-4567"
	email := "info@vitaclinic.com"
	hours := "Mon-Fri: 8:00 AM - 6:00 PM, Sat: 9:00 AM - 2:00 PM"
	return ClinicSettings{
		ClinicName:               "VitaClinic Veterinary Hospital",
		Address:                  &address,
		Phone:                    &phone,
		Email:                    &email,
		AppointmentReminderHours: 24,
		BusinessHours:            &hours,
	}
}

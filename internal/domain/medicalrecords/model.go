package medicalrecords

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord maps to the medical_records table. Records belong to an
// animal and optionally point back at the appointment and veterinarian that
// produced them; the animal's name is joined in on reads.
type MedicalRecord struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	AnimalID        uuid.UUID  `db:"animal_id" json:"animal_id"`
	AppointmentID   *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	VeterinarianID  *uuid.UUID `db:"veterinarian_id" json:"veterinarian_id,omitempty"`
	Diagnosis       *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Treatment       *string    `db:"treatment" json:"treatment,omitempty"`
	Medication      *string    `db:"medication" json:"medication,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	NextCheckupDate *time.Time `db:"next_checkup_date" json:"next_checkup_date,omitempty"`
	RecordDate      time.Time  `db:"record_date" json:"record_date"`
	AnimalName      *string    `db:"-" json:"animal_name,omitempty"`
	VersionID       int        `db:"version_id" json:"version_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

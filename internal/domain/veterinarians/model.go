package veterinarians

import (
	"time"

	"github.com/google/uuid"
)

// Veterinarian maps to the veterinarians table.
type Veterinarian struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Email          *string    `db:"email" json:"email,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	LicenseNumber  *string    `db:"license_number" json:"license_number,omitempty"`
	Specialization *string    `db:"specialization" json:"specialization,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	HireDate       *time.Time `db:"hire_date" json:"hire_date,omitempty"`
	VersionID      int        `db:"version_id" json:"version_id"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName returns "First Last" for snapshot fields on appointments.
func (v *Veterinarian) FullName() string {
	return v.FirstName + " " + v.LastName
}

package animals

import (
	"time"

	"github.com/google/uuid"
)

// Animal maps to the animals table. Every animal belongs to exactly one
// client; the owner's name is joined in on reads for display.
type Animal struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	ClientID           uuid.UUID  `db:"client_id" json:"client_id"`
	Name               string     `db:"name" json:"name"`
	Species            *string    `db:"species" json:"species,omitempty"`
	Breed              *string    `db:"breed" json:"breed,omitempty"`
	DateOfBirth        *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender             *string    `db:"gender" json:"gender,omitempty"`
	Color              *string    `db:"color" json:"color,omitempty"`
	Weight             *float64   `db:"weight" json:"weight,omitempty"`
	ChipID             *string    `db:"chip_id" json:"chip_id,omitempty"`
	VaccinationRecords *string    `db:"vaccination_records" json:"vaccination_records,omitempty"`
	Allergies          *string    `db:"allergies" json:"allergies,omitempty"`
	OwnerName          *string    `db:"-" json:"owner_name,omitempty"`
	VersionID          int        `db:"version_id" json:"version_id"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

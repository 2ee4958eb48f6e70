package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. New appointments start in waiting unless the caller
// says otherwise.
const (
	StatusConfirmed = "confirmed"
	StatusWaiting   = "waiting"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "noshow"
)

var validStatuses = map[string]bool{
	StatusConfirmed: true,
	StatusWaiting:   true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// allowedTransitions drives ChangeStatus. Completed, cancelled and noshow
// are terminal.
var allowedTransitions = map[string]map[string]bool{
	StatusWaiting:   {StatusConfirmed: true, StatusCancelled: true, StatusNoShow: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
}

// CanTransition reports whether an appointment may move from one status to
// another through the status operation.
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}

// Appointment maps to the appointments table. PetName, OwnerName and
// VeterinarianName are snapshots taken when the appointment is created so
// the schedule stays readable even after the linked records change.
type Appointment struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	AnimalID         uuid.UUID  `db:"animal_id" json:"animal_id"`
	VeterinarianID   *uuid.UUID `db:"veterinarian_id" json:"veterinarian_id,omitempty"`
	PetName          *string    `db:"pet_name" json:"pet_name,omitempty"`
	OwnerName        *string    `db:"owner_name" json:"owner_name,omitempty"`
	VeterinarianName *string    `db:"veterinarian_name" json:"veterinarian_name,omitempty"`
	AppointmentType  *string    `db:"appointment_type" json:"appointment_type,omitempty"`
	ScheduledAt      time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status           string     `db:"status" json:"status"`
	Description      *string    `db:"description" json:"description,omitempty"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	VersionID        int        `db:"version_id" json:"version_id"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// UpdateStatus moves the appointment from one status to another. The
	// guard on the current status makes concurrent transitions conflict
	// instead of silently overwriting each other.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*Appointment, error)
	ListByAnimal(ctx context.Context, animalID uuid.UUID) ([]*Appointment, error)
}

package veterinarians

import (
	"context"

	"github.com/google/uuid"
)

type VeterinarianRepository interface {
	Create(ctx context.Context, v *Veterinarian) error
	GetByID(ctx context.Context, id uuid.UUID) (*Veterinarian, error)
	Update(ctx context.Context, v *Veterinarian) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Veterinarian, int, error)
}

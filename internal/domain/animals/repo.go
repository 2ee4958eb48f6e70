package animals

import (
	"context"

	"github.com/google/uuid"
)

type AnimalRepository interface {
	Create(ctx context.Context, a *Animal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Animal, error)
	Update(ctx context.Context, a *Animal) error
	// Delete removes the animal and its medical records, appointments and
	// invoices in a single transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Animal, int, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Animal, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Animal, int, error)
}

package billing

import (
	"context"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	// Create persists the invoice and its items in one transaction.
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// Update replaces the invoice and its item set in one transaction.
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Invoice, error)
	ListByAnimal(ctx context.Context, animalID uuid.UUID) ([]*Invoice, error)
}

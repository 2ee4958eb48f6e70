package clients

import (
	"context"

	"github.com/google/uuid"
)

type ClientRepository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	// Delete removes the client and everything reachable from it (animals,
	// and through them medical records, appointments and invoices) in a
	// single transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Client, int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*Client, int, error)
}

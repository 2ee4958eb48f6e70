package clients

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type Service struct {
	repo ClientRepository
}

func NewService(repo ClientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(c *Client) error {
	if c.FirstName == "" || c.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", clinicerr.ErrValidation)
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !validStatuses[c.Status] {
		return fmt.Errorf("%w: invalid status %q", clinicerr.ErrValidation, c.Status)
	}
	return nil
}

func (s *Service) CreateClient(ctx context.Context, c *Client) error {
	if err := s.validate(c); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateClient replaces the stored record. The payload's id, when present,
// must agree with the id being targeted.
func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, c *Client) error {
	if c.ID != uuid.Nil && c.ID != id {
		return fmt.Errorf("%w: body id %s does not match target %s", clinicerr.ErrIdentifierMismatch, c.ID, id)
	}
	c.ID = id
	if err := s.validate(c); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListClients(ctx context.Context, limit, offset int) ([]*Client, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// SearchClients matches a case-insensitive substring against first name,
// last name, phone and email. An empty query falls back to a plain list.
func (s *Service) SearchClients(ctx context.Context, query string, limit, offset int) ([]*Client, int, error) {
	if query == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, query, limit, offset)
}

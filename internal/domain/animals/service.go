package animals

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type Service struct {
	repo AnimalRepository
}

func NewService(repo AnimalRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(a *Animal) error {
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", clinicerr.ErrValidation)
	}
	if a.ClientID == uuid.Nil {
		return fmt.Errorf("%w: client_id is required", clinicerr.ErrValidation)
	}
	if a.Weight != nil && *a.Weight < 0 {
		return fmt.Errorf("%w: weight cannot be negative", clinicerr.ErrValidation)
	}
	return nil
}

func (s *Service) CreateAnimal(ctx context.Context, a *Animal) error {
	if err := s.validate(a); err != nil {
		return err
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAnimal(ctx context.Context, id uuid.UUID) (*Animal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAnimal(ctx context.Context, id uuid.UUID, a *Animal) error {
	if a.ID != uuid.Nil && a.ID != id {
		return fmt.Errorf("%w: body id %s does not match target %s", clinicerr.ErrIdentifierMismatch, a.ID, id)
	}
	a.ID = id
	if err := s.validate(a); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) DeleteAnimal(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListAnimals(ctx context.Context, limit, offset int) ([]*Animal, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListAnimalsByClient(ctx context.Context, clientID uuid.UUID) ([]*Animal, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// SearchAnimals matches a case-insensitive substring against the animal's
// name, species and breed, and against the owner's first and last name.
func (s *Service) SearchAnimals(ctx context.Context, query string, limit, offset int) ([]*Animal, int, error) {
	if query == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, query, limit, offset)
}

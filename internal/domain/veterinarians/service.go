package veterinarians

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type Service struct {
	repo VeterinarianRepository
}

func NewService(repo VeterinarianRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(v *Veterinarian) error {
	if v.FirstName == "" || v.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", clinicerr.ErrValidation)
	}
	return nil
}

func (s *Service) CreateVeterinarian(ctx context.Context, v *Veterinarian) error {
	if err := s.validate(v); err != nil {
		return err
	}
	return s.repo.Create(ctx, v)
}

func (s *Service) GetVeterinarian(ctx context.Context, id uuid.UUID) (*Veterinarian, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateVeterinarian(ctx context.Context, id uuid.UUID, v *Veterinarian) error {
	if v.ID != uuid.Nil && v.ID != id {
		return fmt.Errorf("%w: body id %s does not match target %s", clinicerr.ErrIdentifierMismatch, v.ID, id)
	}
	v.ID = id
	if err := s.validate(v); err != nil {
		return err
	}
	return s.repo.Update(ctx, v)
}

func (s *Service) DeleteVeterinarian(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListVeterinarians(ctx context.Context, limit, offset int) ([]*Veterinarian, int, error) {
	return s.repo.List(ctx, limit, offset)
}

package medicalrecords

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type Service struct {
	repo MedicalRecordRepository
}

func NewService(repo MedicalRecordRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(rec *MedicalRecord) error {
	if rec.AnimalID == uuid.Nil {
		return fmt.Errorf("%w: animal_id is required", clinicerr.ErrValidation)
	}
	return nil
}

func (s *Service) CreateRecord(ctx context.Context, rec *MedicalRecord) error {
	if err := s.validate(rec); err != nil {
		return err
	}
	return s.repo.Create(ctx, rec)
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, id uuid.UUID, rec *MedicalRecord) error {
	if rec.ID != uuid.Nil && rec.ID != id {
		return fmt.Errorf("%w: body id %s does not match target %s", clinicerr.ErrIdentifierMismatch, rec.ID, id)
	}
	rec.ID = id
	if err := s.validate(rec); err != nil {
		return err
	}
	return s.repo.Update(ctx, rec)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListRecordsByAnimal(ctx context.Context, animalID uuid.UUID) ([]*MedicalRecord, error) {
	return s.repo.ListByAnimal(ctx, animalID)
}

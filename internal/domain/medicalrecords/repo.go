package medicalrecords

import (
	"context"

	"github.com/google/uuid"
)

type MedicalRecordRepository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	Update(ctx context.Context, rec *MedicalRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error)
	// ListByAnimal returns the animal's records newest first.
	ListByAnimal(ctx context.Context, animalID uuid.UUID) ([]*MedicalRecord, error)
}

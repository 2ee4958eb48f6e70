package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type Service struct {
	repo InvoiceRepository
	now  func() time.Time
}

func NewService(repo InvoiceRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) validate(inv *Invoice) error {
	if inv.AnimalID == uuid.Nil {
		return fmt.Errorf("%w: animal_id is required", clinicerr.ErrValidation)
	}
	if inv.ClientID == uuid.Nil {
		return fmt.Errorf("%w: client_id is required", clinicerr.ErrValidation)
	}
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	if !validStatuses[inv.Status] {
		return fmt.Errorf("%w: invalid status %q", clinicerr.ErrValidation, inv.Status)
	}
	if inv.TotalAmount < 0 || inv.PaidAmount < 0 {
		return fmt.Errorf("%w: amounts cannot be negative", clinicerr.ErrValidation)
	}
	for _, it := range inv.Items {
		if it.ServiceName == "" {
			return fmt.Errorf("%w: item service_name is required", clinicerr.ErrValidation)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", clinicerr.ErrValidation)
		}
	}
	return nil
}

func (s *Service) CreateInvoice(ctx context.Context, inv *Invoice) error {
	if err := s.validate(inv); err != nil {
		return err
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = s.nextInvoiceNumber()
	}
	return s.repo.Create(ctx, inv)
}

// nextInvoiceNumber builds a human-readable unique invoice number.
func (s *Service) nextInvoiceNumber() string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("INV-%s-%s", s.now().Format("20060102"), suffix)
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateInvoice(ctx context.Context, id uuid.UUID, inv *Invoice) error {
	if inv.ID != uuid.Nil && inv.ID != id {
		return fmt.Errorf("%w: body id %s does not match target %s", clinicerr.ErrIdentifierMismatch, inv.ID, id)
	}
	inv.ID = id
	if err := s.validate(inv); err != nil {
		return err
	}
	return s.repo.Update(ctx, inv)
}

func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListInvoicesByClient(ctx context.Context, clientID uuid.UUID) ([]*Invoice, error) {
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) ListInvoicesByAnimal(ctx context.Context, animalID uuid.UUID) ([]*Invoice, error) {
	return s.repo.ListByAnimal(ctx, animalID)
}

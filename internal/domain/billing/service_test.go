package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

type mockRepo struct {
	invoices map[uuid.UUID]*Invoice
}

func newMockRepo() *mockRepo {
	return &mockRepo{invoices: make(map[uuid.UUID]*Invoice)}
}

func (m *mockRepo) Create(_ context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	inv.VersionID = 1
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = time.Now()
	}
	for _, it := range inv.Items {
		it.ID = uuid.New()
		it.InvoiceID = inv.ID
		it.ComputeLineTotal()
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, clinicerr.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, inv *Invoice) error {
	stored, ok := m.invoices[inv.ID]
	if !ok {
		return clinicerr.ErrNotFound
	}
	if stored.VersionID != inv.VersionID {
		return clinicerr.ErrConflict
	}
	inv.VersionID++
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.invoices[id]; !ok {
		return clinicerr.ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.invoices {
		result = append(result, inv)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]*Invoice, error) {
	var result []*Invoice
	for _, inv := range m.invoices {
		if inv.ClientID == clientID {
			result = append(result, inv)
		}
	}
	return result, nil
}

func (m *mockRepo) ListByAnimal(_ context.Context, animalID uuid.UUID) ([]*Invoice, error) {
	var result []*Invoice
	for _, inv := range m.invoices {
		if inv.AnimalID == animalID {
			result = append(result, inv)
		}
	}
	return result, nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreateInvoiceDefaults(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }

	inv := &Invoice{AnimalID: uuid.New(), ClientID: uuid.New()}
	if err := svc.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}
	if inv.Status != StatusPending {
		t.Errorf("expected default status pending, got %q", inv.Status)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-20260309-") {
		t.Errorf("unexpected invoice number: %q", inv.InvoiceNumber)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := newTestService()

	err := svc.CreateInvoice(context.Background(), &Invoice{ClientID: uuid.New()})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing animal, got %v", err)
	}

	err = svc.CreateInvoice(context.Background(), &Invoice{
		AnimalID: uuid.New(), ClientID: uuid.New(),
		Items: []*InvoiceItem{{ServiceName: "Exam", Quantity: 0, UnitPrice: 40}},
	})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero quantity, got %v", err)
	}
}

func TestInvoiceItemLineTotalRecomputed(t *testing.T) {
	svc := newTestService()

	inv := &Invoice{
		AnimalID: uuid.New(), ClientID: uuid.New(), TotalAmount: 120,
		Items: []*InvoiceItem{
			// Stored total drifted from quantity x unit price.
			{ServiceName: "Vaccination", Quantity: 2, UnitPrice: 45, TotalPrice: 80},
		},
	}
	if err := svc.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	it := inv.Items[0]
	if it.TotalPrice != 80 {
		t.Errorf("stored total must be trusted, got %v", it.TotalPrice)
	}
	if it.LineTotal != 90 {
		t.Errorf("expected recomputed line total 90, got %v", it.LineTotal)
	}
}

func TestUpdateInvoiceIdentifierMismatch(t *testing.T) {
	svc := newTestService()

	inv := &Invoice{AnimalID: uuid.New(), ClientID: uuid.New()}
	svc.CreateInvoice(context.Background(), inv)

	bogus := *inv
	bogus.ID = uuid.New()
	err := svc.UpdateInvoice(context.Background(), inv.ID, &bogus)
	if !errors.Is(err, clinicerr.ErrIdentifierMismatch) {
		t.Fatalf("expected ErrIdentifierMismatch, got %v", err)
	}
}

func TestListInvoicesByClient(t *testing.T) {
	svc := newTestService()

	client := uuid.New()
	svc.CreateInvoice(context.Background(), &Invoice{AnimalID: uuid.New(), ClientID: client})
	svc.CreateInvoice(context.Background(), &Invoice{AnimalID: uuid.New(), ClientID: client})
	svc.CreateInvoice(context.Background(), &Invoice{AnimalID: uuid.New(), ClientID: uuid.New()})

	items, err := svc.ListInvoicesByClient(context.Background(), client)
	if err != nil {
		t.Fatalf("ListInvoicesByClient returned error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 invoices, got %d", len(items))
	}
}

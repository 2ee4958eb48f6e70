package clients

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitaclinic/clinic-server/internal/platform/clinicerr"
)

// -- Mock Repository --

type mockRepo struct {
	clients map[uuid.UUID]*Client
	deleted []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{clients: make(map[uuid.UUID]*Client)}
}

func (m *mockRepo) Create(_ context.Context, c *Client) error {
	c.ID = uuid.New()
	c.VersionID = 1
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, clinicerr.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, c *Client) error {
	stored, ok := m.clients[c.ID]
	if !ok {
		return clinicerr.ErrNotFound
	}
	if stored.VersionID != c.VersionID {
		return clinicerr.ErrConflict
	}
	c.VersionID++
	c.UpdatedAt = time.Now()
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.clients[id]; !ok {
		return clinicerr.ErrNotFound
	}
	delete(m.clients, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Client, int, error) {
	var result []*Client
	for _, c := range m.clients {
		result = append(result, c)
	}
	return result, len(result), nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Client, int, error) {
	q := strings.ToLower(query)
	var result []*Client
	for _, c := range m.clients {
		hay := strings.ToLower(c.FirstName + " " + c.LastName)
		if c.Phone != nil {
			hay += " " + *c.Phone
		}
		if c.Email != nil {
			hay += " " + strings.ToLower(*c.Email)
		}
		if strings.Contains(hay, q) {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

// -- Tests --

func TestCreateClientDefaultsStatus(t *testing.T) {
	svc, _ := newTestService()

	c := &Client{FirstName: "Maria", LastName: "Lopez"}
	if err := svc.CreateClient(context.Background(), c); err != nil {
		t.Fatalf("CreateClient returned error: %v", err)
	}
	if c.Status != StatusActive {
		t.Errorf("expected default status %q, got %q", StatusActive, c.Status)
	}
	if c.ID == uuid.Nil {
		t.Error("expected an id to be assigned")
	}
	if c.VersionID != 1 {
		t.Errorf("expected version 1, got %d", c.VersionID)
	}
}

func TestCreateClientValidation(t *testing.T) {
	svc, _ := newTestService()

	err := svc.CreateClient(context.Background(), &Client{FirstName: "Maria"})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	err = svc.CreateClient(context.Background(), &Client{FirstName: "Maria", LastName: "Lopez", Status: "frozen"})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad status, got %v", err)
	}
}

func TestUpdateClientIdentifierMismatch(t *testing.T) {
	svc, _ := newTestService()

	c := &Client{FirstName: "Maria", LastName: "Lopez"}
	if err := svc.CreateClient(context.Background(), c); err != nil {
		t.Fatalf("CreateClient returned error: %v", err)
	}

	bogus := *c
	bogus.ID = uuid.New()
	err := svc.UpdateClient(context.Background(), c.ID, &bogus)
	if !errors.Is(err, clinicerr.ErrIdentifierMismatch) {
		t.Fatalf("expected ErrIdentifierMismatch, got %v", err)
	}

	// Mismatch must be rejected before any write happens.
	stored, err := svc.GetClient(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("GetClient returned error: %v", err)
	}
	if stored.VersionID != 1 {
		t.Errorf("expected untouched version 1, got %d", stored.VersionID)
	}
}

func TestUpdateClientStaleVersion(t *testing.T) {
	svc, _ := newTestService()

	c := &Client{FirstName: "Maria", LastName: "Lopez"}
	svc.CreateClient(context.Background(), c)

	first := *c
	if err := svc.UpdateClient(context.Background(), c.ID, &first); err != nil {
		t.Fatalf("first update returned error: %v", err)
	}

	stale := *c // still carries version 1
	err := svc.UpdateClient(context.Background(), c.ID, &stale)
	if !errors.Is(err, clinicerr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateClientMissingBodyIDIsAccepted(t *testing.T) {
	svc, _ := newTestService()

	c := &Client{FirstName: "Maria", LastName: "Lopez"}
	svc.CreateClient(context.Background(), c)

	update := Client{FirstName: "Maria", LastName: "Garcia", Status: StatusActive, VersionID: 1}
	if err := svc.UpdateClient(context.Background(), c.ID, &update); err != nil {
		t.Fatalf("UpdateClient returned error: %v", err)
	}
	stored, _ := svc.GetClient(context.Background(), c.ID)
	if stored.LastName != "Garcia" {
		t.Errorf("expected updated last name, got %q", stored.LastName)
	}
}

func TestDeleteClientNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.DeleteClient(context.Background(), uuid.New())
	if !errors.Is(err, clinicerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchClients(t *testing.T) {
	svc, _ := newTestService()

	email := "maria@example.com"
	phone := "+15550001111"
	svc.CreateClient(context.Background(), &Client{FirstName: "Maria", LastName: "Lopez", Email: &email})
	svc.CreateClient(context.Background(), &Client{FirstName: "John", LastName: "Smith", Phone: &phone})

	items, total, err := svc.SearchClients(context.Background(), "maria", 50, 0)
	if err != nil {
		t.Fatalf("SearchClients returned error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 match, got %d", total)
	}
	if items[0].FirstName != "Maria" {
		t.Errorf("unexpected match: %s", items[0].FirstName)
	}

	_, total, _ = svc.SearchClients(context.Background(), "555000", 50, 0)
	if total != 1 {
		t.Errorf("expected phone match, got %d", total)
	}

	// Empty query behaves as a plain list.
	_, total, _ = svc.SearchClients(context.Background(), "", 50, 0)
	if total != 2 {
		t.Errorf("expected 2 from empty query, got %d", total)
	}
}

package animals

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
	animals map[uuid.UUID]*Animal
	owners  map[uuid.UUID]string // client id -> owner name, for search
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		animals: make(map[uuid.UUID]*Animal),
		owners:  make(map[uuid.UUID]string),
	}
}

func (m *mockRepo) Create(_ context.Context, a *Animal) error {
	a.ID = uuid.New()
	a.VersionID = 1
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	cp := *a
	m.animals[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Animal, error) {
	a, ok := m.animals[id]
	if !ok {
		return nil, clinicerr.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Animal) error {
	stored, ok := m.animals[a.ID]
	if !ok {
		return clinicerr.ErrNotFound
	}
	if stored.VersionID != a.VersionID {
		return clinicerr.ErrConflict
	}
	a.VersionID++
	cp := *a
	m.animals[a.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.animals[id]; !ok {
		return clinicerr.ErrNotFound
	}
	delete(m.animals, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Animal, int, error) {
	var result []*Animal
	for _, a := range m.animals {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]*Animal, error) {
	var result []*Animal
	for _, a := range m.animals {
		if a.ClientID == clientID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Animal, int, error) {
	q := strings.ToLower(query)
	var result []*Animal
	for _, a := range m.animals {
		hay := strings.ToLower(a.Name + " " + m.owners[a.ClientID])
		if a.Species != nil {
			hay += " " + strings.ToLower(*a.Species)
		}
		if a.Breed != nil {
			hay += " " + strings.ToLower(*a.Breed)
		}
		if strings.Contains(hay, q) {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func strptr(s string) *string { return &s }

// -- Tests --

func TestCreateAnimalRequiresNameAndOwner(t *testing.T) {
	svc, _ := newTestService()

	err := svc.CreateAnimal(context.Background(), &Animal{ClientID: uuid.New()})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing name, got %v", err)
	}

	err = svc.CreateAnimal(context.Background(), &Animal{Name: "Rex"})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing client_id, got %v", err)
	}

	a := &Animal{Name: "Rex", ClientID: uuid.New()}
	if err := svc.CreateAnimal(context.Background(), a); err != nil {
		t.Fatalf("CreateAnimal returned error: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Error("expected an id to be assigned")
	}
}

func TestCreateAnimalRejectsNegativeWeight(t *testing.T) {
	svc, _ := newTestService()

	w := -3.5
	err := svc.CreateAnimal(context.Background(), &Animal{Name: "Rex", ClientID: uuid.New(), Weight: &w})
	if !errors.Is(err, clinicerr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateAnimalIdentifierMismatch(t *testing.T) {
	svc, _ := newTestService()

	a := &Animal{Name: "Rex", ClientID: uuid.New()}
	svc.CreateAnimal(context.Background(), a)

	bogus := *a
	bogus.ID = uuid.New()
	err := svc.UpdateAnimal(context.Background(), a.ID, &bogus)
	if !errors.Is(err, clinicerr.ErrIdentifierMismatch) {
		t.Fatalf("expected ErrIdentifierMismatch, got %v", err)
	}
}

func TestUpdateAnimalStaleVersion(t *testing.T) {
	svc, _ := newTestService()

	a := &Animal{Name: "Rex", ClientID: uuid.New()}
	svc.CreateAnimal(context.Background(), a)

	first := *a
	if err := svc.UpdateAnimal(context.Background(), a.ID, &first); err != nil {
		t.Fatalf("first update returned error: %v", err)
	}

	stale := *a
	err := svc.UpdateAnimal(context.Background(), a.ID, &stale)
	if !errors.Is(err, clinicerr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestListAnimalsByClient(t *testing.T) {
	svc, _ := newTestService()

	owner := uuid.New()
	svc.CreateAnimal(context.Background(), &Animal{Name: "Rex", ClientID: owner})
	svc.CreateAnimal(context.Background(), &Animal{Name: "Whiskers", ClientID: owner})
	svc.CreateAnimal(context.Background(), &Animal{Name: "Stranger", ClientID: uuid.New()})

	items, err := svc.ListAnimalsByClient(context.Background(), owner)
	if err != nil {
		t.Fatalf("ListAnimalsByClient returned error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 animals, got %d", len(items))
	}
}

func TestSearchAnimalsByOwnerName(t *testing.T) {
	svc, repo := newTestService()

	owner := uuid.New()
	repo.owners[owner] = "Maria Lopez"
	svc.CreateAnimal(context.Background(), &Animal{Name: "Rex", ClientID: owner, Species: strptr("Dog")})
	svc.CreateAnimal(context.Background(), &Animal{Name: "Whiskers", ClientID: uuid.New(), Species: strptr("Cat")})

	_, total, err := svc.SearchAnimals(context.Background(), "lopez", 50, 0)
	if err != nil {
		t.Fatalf("SearchAnimals returned error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected owner-name match, got %d", total)
	}

	_, total, _ = svc.SearchAnimals(context.Background(), "cat", 50, 0)
	if total != 1 {
		t.Errorf("expected species match, got %d", total)
	}
}

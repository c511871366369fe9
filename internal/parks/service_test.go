package parks

import (
	"context"
	"testing"

	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubParkRepo struct {
	parks  map[int64]*models.DogPark
	nextID int64
}

func newStubParkRepo() *stubParkRepo {
	return &stubParkRepo{parks: map[int64]*models.DogPark{}, nextID: 1}
}

func (s *stubParkRepo) Create(ctx context.Context, park *models.DogPark) (*models.DogPark, error) {
	park.ID = s.nextID
	s.nextID++
	s.parks[park.ID] = park
	return park, nil
}

func (s *stubParkRepo) FindByID(ctx context.Context, id int64) (*models.DogPark, error) {
	park, ok := s.parks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return park, nil
}

func (s *stubParkRepo) List(ctx context.Context, search string) ([]models.DogPark, error) {
	var out []models.DogPark
	for _, p := range s.parks {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubParkRepo) Update(ctx context.Context, id int64, updates map[string]any) (*models.DogPark, error) {
	park, ok := s.parks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		park.Name = v.(string)
	}
	if v, ok := updates["address"]; ok {
		park.Address = v.(string)
	}
	return park, nil
}

func (s *stubParkRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.parks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.parks, id)
	return nil
}

func newTestService(t *testing.T, repo *stubParkRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{ParkRepo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateAttributesCaller(t *testing.T) {
	repo := newStubParkRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Create(context.Background(), authz.Principal{UserID: 7}, CreateParkRequest{
		Name:    "  Central Bark ",
		Address: "1 Park Ave",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.CreatedByID != 7 {
		t.Fatalf("expected creator 7, got %d", dto.CreatedByID)
	}
	if dto.Name != "Central Bark" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
}

func TestUpdateRequiresCreatorOrAdmin(t *testing.T) {
	repo := newStubParkRepo()
	repo.parks[1] = &models.DogPark{ID: 1, Name: "Central Bark", Address: "1 Park Ave", CreatedByID: 7}
	svc := newTestService(t, repo)

	name := "Hound Hill"
	_, err := svc.Update(context.Background(), authz.Principal{UserID: 8}, 1, UpdateParkRequest{Name: &name})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	dto, err := svc.Update(context.Background(), authz.Principal{UserID: 8, IsAdmin: true}, 1, UpdateParkRequest{Name: &name})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if dto.Name != "Hound Hill" {
		t.Fatalf("expected updated name, got %q", dto.Name)
	}
}

func TestDeleteMissingParkIsNotFound(t *testing.T) {
	svc := newTestService(t, newStubParkRepo())

	err := svc.Delete(context.Background(), authz.Principal{UserID: 1}, 42)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

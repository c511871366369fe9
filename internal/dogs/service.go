package dogs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/pkg/db/models"
	"github.com/parkpals/parkpals-backend/pkg/enums"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes dog registration and management rules.
type Service interface {
	Create(ctx context.Context, principal authz.Principal, req CreateDogRequest) (*DogDTO, error)
	Get(ctx context.Context, id int64) (*DogDTO, error)
	ListMine(ctx context.Context, principal authz.Principal) ([]DogDTO, error)
	ListAll(ctx context.Context) ([]DogDTO, error)
	Update(ctx context.Context, principal authz.Principal, id int64, req UpdateDogRequest) (*DogDTO, error)
	Delete(ctx context.Context, principal authz.Principal, id int64) error
}

type dogRepository interface {
	Create(ctx context.Context, dog *models.Dog) (*models.Dog, error)
	FindByID(ctx context.Context, id int64) (*models.Dog, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Dog, error)
	List(ctx context.Context) ([]models.Dog, error)
	Update(ctx context.Context, id int64, updates map[string]any) (*models.Dog, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	dogs dogRepository
}

// ServiceParams bundles the dependencies required to build a dogs service.
type ServiceParams struct {
	DogRepo dogRepository
}

// NewService constructs a dogs service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DogRepo == nil {
		return nil, fmt.Errorf("dog repository is required")
	}
	return &service{dogs: params.DogRepo}, nil
}

// Create registers a dog owned by the caller.
func (s *service) Create(ctx context.Context, principal authz.Principal, req CreateDogRequest) (*DogDTO, error) {
	dog := &models.Dog{
		Name:             strings.TrimSpace(req.Name),
		OwnerID:          principal.UserID,
		GoodWithOthers:   true,
		PersonalityNotes: req.PersonalityNotes,
		PhotoURL:         req.PhotoURL,
	}
	if req.Breed != nil && strings.TrimSpace(*req.Breed) != "" {
		dog.Breed = strings.TrimSpace(*req.Breed)
	} else {
		dog.Breed = "Mixed"
	}
	if req.Size != nil {
		size, err := enums.ParseDogSize(*req.Size)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size")
		}
		dog.Size = size
	} else {
		dog.Size = enums.DogSizeMedium
	}
	if req.GoodWithOthers != nil {
		dog.GoodWithOthers = *req.GoodWithOthers
	}

	created, err := s.dogs.Create(ctx, dog)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create dog")
	}
	return FromModel(created), nil
}

// Get returns any dog; read access only requires an authenticated principal.
func (s *service) Get(ctx context.Context, id int64) (*DogDTO, error) {
	dog, err := s.loadDog(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(dog), nil
}

// ListMine returns the caller's own dogs.
func (s *service) ListMine(ctx context.Context, principal authz.Principal) ([]DogDTO, error) {
	rows, err := s.dogs.ListByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list dogs")
	}
	return FromModels(rows), nil
}

// ListAll returns every registered dog.
func (s *service) ListAll(ctx context.Context) ([]DogDTO, error) {
	rows, err := s.dogs.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list dogs")
	}
	return FromModels(rows), nil
}

// Update applies a partial edit. Existence is checked before ownership so a
// missing dog reports NotFound rather than Forbidden.
func (s *service) Update(ctx context.Context, principal authz.Principal, id int64, req UpdateDogRequest) (*DogDTO, error) {
	dog, err := s.loadDog(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(principal, dog.OwnerID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the owner of this dog")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Breed != nil {
		updates["breed"] = strings.TrimSpace(*req.Breed)
	}
	if req.Size != nil {
		size, err := enums.ParseDogSize(*req.Size)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size")
		}
		updates["size"] = size
	}
	if req.GoodWithOthers != nil {
		updates["good_with_others"] = *req.GoodWithOthers
	}
	if req.PersonalityNotes != nil {
		updates["personality_notes"] = *req.PersonalityNotes
	}
	if req.PhotoURL != nil {
		updates["photo_url"] = *req.PhotoURL
	}

	updated, err := s.dogs.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update dog")
	}
	return FromModel(updated), nil
}

// Delete removes the dog when the caller owns it or is an admin.
func (s *service) Delete(ctx context.Context, principal authz.Principal, id int64) error {
	dog, err := s.loadDog(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModify(principal, dog.OwnerID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not the owner of this dog")
	}
	if err := s.dogs.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "dog not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete dog")
	}
	return nil
}

func (s *service) loadDog(ctx context.Context, id int64) (*models.Dog, error) {
	dog, err := s.dogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dog not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load dog")
	}
	return dog, nil
}

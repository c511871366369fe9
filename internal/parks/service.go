package parks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes park discovery and management rules.
type Service interface {
	Create(ctx context.Context, principal authz.Principal, req CreateParkRequest) (*ParkDTO, error)
	Get(ctx context.Context, id int64) (*ParkDTO, error)
	List(ctx context.Context, search string) ([]ParkDTO, error)
	Update(ctx context.Context, principal authz.Principal, id int64, req UpdateParkRequest) (*ParkDTO, error)
	Delete(ctx context.Context, principal authz.Principal, id int64) error
}

type parkRepository interface {
	Create(ctx context.Context, park *models.DogPark) (*models.DogPark, error)
	FindByID(ctx context.Context, id int64) (*models.DogPark, error)
	List(ctx context.Context, search string) ([]models.DogPark, error)
	Update(ctx context.Context, id int64, updates map[string]any) (*models.DogPark, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	parks parkRepository
}

// ServiceParams bundles the dependencies required to build a parks service.
type ServiceParams struct {
	ParkRepo parkRepository
}

// NewService constructs a parks service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ParkRepo == nil {
		return nil, fmt.Errorf("park repository is required")
	}
	return &service{parks: params.ParkRepo}, nil
}

// Create registers a park attributed to the caller.
func (s *service) Create(ctx context.Context, principal authz.Principal, req CreateParkRequest) (*ParkDTO, error) {
	park := &models.DogPark{
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedByID: principal.UserID,
	}

	created, err := s.parks.Create(ctx, park)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create park")
	}
	return FromModel(created), nil
}

// Get returns any park; shared-resource model, no ownership check on reads.
func (s *service) Get(ctx context.Context, id int64) (*ParkDTO, error) {
	park, err := s.loadPark(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(park), nil
}

// List returns parks matching an optional search term.
func (s *service) List(ctx context.Context, search string) ([]ParkDTO, error) {
	rows, err := s.parks.List(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list parks")
	}
	return FromModels(rows), nil
}

// Update applies a partial edit; only the creator or an admin may modify.
func (s *service) Update(ctx context.Context, principal authz.Principal, id int64, req UpdateParkRequest) (*ParkDTO, error) {
	park, err := s.loadPark(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(principal, park.CreatedByID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the creator of this park")
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}

	updated, err := s.parks.Update(ctx, id, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update park")
	}
	return FromModel(updated), nil
}

// Delete removes the park when the caller created it or is an admin.
func (s *service) Delete(ctx context.Context, principal authz.Principal, id int64) error {
	park, err := s.loadPark(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModify(principal, park.CreatedByID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not the creator of this park")
	}
	if err := s.parks.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "park not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete park")
	}
	return nil
}

func (s *service) loadPark(ctx context.Context, id int64) (*models.DogPark, error) {
	park, err := s.parks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "park not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load park")
	}
	return park, nil
}

package visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/internal/dogs"
	"github.com/parkpals/parkpals-backend/internal/parks"
	"github.com/parkpals/parkpals-backend/internal/users"
	"github.com/parkpals/parkpals-backend/pkg/db"
	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes visit logging, the dog attachment rules, and visit queries.
type Service interface {
	Create(ctx context.Context, principal authz.Principal, req CreateVisitRequest) (*VisitDTO, error)
	Get(ctx context.Context, id int64) (*VisitDTO, error)
	List(ctx context.Context, filter ListFilter) ([]VisitDTO, error)
	ListMine(ctx context.Context, principal authz.Principal) ([]VisitDTO, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]VisitDTO, error)
	Update(ctx context.Context, principal authz.Principal, id int64, req UpdateVisitRequest) (*VisitDTO, error)
	Delete(ctx context.Context, principal authz.Principal, id int64) error
}

type visitRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Visit, error)
	List(ctx context.Context, filter ListFilter) ([]models.Visit, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Visit, error)
	ListActiveWindow(ctx context.Context, now, cutoff time.Time) ([]models.Visit, error)
	DogsForVisit(ctx context.Context, visitID int64) ([]models.Dog, error)
	DogsForVisits(ctx context.Context, visitIDs []int64) (map[int64][]models.Dog, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type userLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type parkLookup interface {
	FindByID(ctx context.Context, id int64) (*models.DogPark, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	client txRunner
	visits visitRepository
	users  userLookup
	parks  parkLookup
}

// ServiceParams bundles the dependencies required to build a visits service.
type ServiceParams struct {
	Client    *db.Client
	VisitRepo visitRepository
	UserRepo  userLookup
	ParkRepo  parkLookup
}

// NewService constructs a visits service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.VisitRepo == nil {
		return nil, fmt.Errorf("visit repository is required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ParkRepo == nil {
		return nil, fmt.Errorf("park repository is required")
	}
	return &service{
		client: params.Client,
		visits: params.VisitRepo,
		users:  params.UserRepo,
		parks:  params.ParkRepo,
	}, nil
}

// Create logs a visit with an optional dog set. Dog validation and link
// creation are atomic with the visit insert: any failure rolls back the lot.
func (s *service) Create(ctx context.Context, principal authz.Principal, req CreateVisitRequest) (*VisitDTO, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_time must be after start_time")
	}

	if _, err := s.parks.FindByID(ctx, req.ParkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "park not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load park")
	}

	visit := &models.Visit{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
		UserID:    principal.UserID,
		ParkID:    req.ParkID,
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		validated, err := validateAttachSet(tx, principal.UserID, req.DogIDs)
		if err != nil {
			return err
		}
		if err := tx.Create(visit).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create visit")
		}
		return createLinks(tx, visit.ID, validated)
	})
	if err != nil {
		return nil, err
	}

	return s.assembleDetail(ctx, visit)
}

// Get returns any visit; visibility is global for authenticated principals.
func (s *service) Get(ctx context.Context, id int64) (*VisitDTO, error) {
	visit, err := s.loadVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, visit)
}

// List returns the community feed, optionally narrowed by park or to
// visits that have not ended yet, enriched with dogs, user, and park.
func (s *service) List(ctx context.Context, filter ListFilter) ([]VisitDTO, error) {
	rows, err := s.visits.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list visits")
	}
	return s.assembleDetailList(ctx, rows)
}

// ListMine returns the caller's visits with their dog sets.
func (s *service) ListMine(ctx context.Context, principal authz.Principal) ([]VisitDTO, error) {
	rows, err := s.visits.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list visits")
	}
	return s.assembleList(ctx, rows)
}

// ListUpcoming returns every visit in progress at now or starting within
// the next 24 hours, across all users.
func (s *service) ListUpcoming(ctx context.Context, now time.Time) ([]VisitDTO, error) {
	rows, err := s.visits.ListActiveWindow(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list upcoming visits")
	}
	return s.assembleDetailList(ctx, rows)
}

// Update applies a partial edit. When a dog set is supplied, the new set is
// validated before the old links are removed so a failure leaves the prior
// dog set untouched. Time bounds are re-validated whenever either changes.
func (s *service) Update(ctx context.Context, principal authz.Principal, id int64, req UpdateVisitRequest) (*VisitDTO, error) {
	visit, err := s.loadVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(principal, visit.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the logger of this visit")
	}

	start := visit.StartTime
	end := visit.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if (req.StartTime != nil || req.EndTime != nil) && !end.After(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_time must be after start_time")
	}

	if req.ParkID != nil {
		if _, err := s.parks.FindByID(ctx, *req.ParkID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "park not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load park")
		}
	}

	updates := map[string]any{}
	if req.StartTime != nil {
		updates["start_time"] = start
	}
	if req.EndTime != nil {
		updates["end_time"] = end
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.ParkID != nil {
		updates["park_id"] = *req.ParkID
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if req.DogIDs != nil {
			// The dog set always belongs to the visit's logger, even when an
			// admin performs the edit.
			if err := replaceLinks(tx, visit.ID, visit.UserID, *req.DogIDs); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Visit{}).Where("id = ?", visit.ID).Updates(updates).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update visit")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	refreshed, err := s.loadVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, refreshed)
}

// Delete removes a visit and its link rows when the caller logged it or is
// an admin.
func (s *service) Delete(ctx context.Context, principal authz.Principal, id int64) error {
	visit, err := s.loadVisit(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModify(principal, visit.UserID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not the logger of this visit")
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return s.visits.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "visit not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete visit")
	}
	return nil
}

func (s *service) loadVisit(ctx context.Context, id int64) (*models.Visit, error) {
	visit, err := s.visits.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "visit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load visit")
	}
	return visit, nil
}

func (s *service) assembleDetail(ctx context.Context, visit *models.Visit) (*VisitDTO, error) {
	dto := fromModel(visit)

	linked, err := s.visits.DogsForVisit(ctx, visit.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load visit dogs")
	}
	dto.Dogs = dogs.FromModels(linked)

	if user, err := s.users.FindByID(ctx, visit.UserID); err == nil {
		dto.User = users.FromModelPublic(user)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load visit user")
	}

	if park, err := s.parks.FindByID(ctx, visit.ParkID); err == nil {
		dto.Park = parks.FromModel(park)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load visit park")
	}

	return dto, nil
}

// assembleDetailList enriches each visit with its dogs plus the public
// user and park rows, memoizing lookups across the batch.
func (s *service) assembleDetailList(ctx context.Context, rows []models.Visit) ([]VisitDTO, error) {
	out, err := s.assembleList(ctx, rows)
	if err != nil {
		return nil, err
	}

	userCache := map[int64]*users.PublicDTO{}
	parkCache := map[int64]*parks.ParkDTO{}
	for i := range out {
		if cached, ok := userCache[out[i].UserID]; ok {
			out[i].User = cached
		} else if user, err := s.users.FindByID(ctx, out[i].UserID); err == nil {
			dto := users.FromModelPublic(user)
			userCache[out[i].UserID] = dto
			out[i].User = dto
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load visit user")
		}

		if cached, ok := parkCache[out[i].ParkID]; ok {
			out[i].Park = cached
		} else if park, err := s.parks.FindByID(ctx, out[i].ParkID); err == nil {
			dto := parks.FromModel(park)
			parkCache[out[i].ParkID] = dto
			out[i].Park = dto
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load visit park")
		}
	}
	return out, nil
}

func (s *service) assembleList(ctx context.Context, rows []models.Visit) ([]VisitDTO, error) {
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	dogSets, err := s.visits.DogsForVisits(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load visit dogs")
	}

	out := make([]VisitDTO, 0, len(rows))
	for i := range rows {
		dto := fromModel(&rows[i])
		dto.Dogs = dogs.FromModels(dogSets[rows[i].ID])
		out = append(out, *dto)
	}
	return out, nil
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parkpals/parkpals-backend/internal/authz"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

const popularityWindow = 7 * 24 * time.Hour

// Stats is the point-in-time dashboard snapshot for one user.
type Stats struct {
	UpcomingCount        int64   `json:"upcoming_count"`
	MostPopularParkName  *string `json:"most_popular_park_name"`
	MostPopularParkCount int64   `json:"most_popular_park_count"`
}

// Service computes the dashboard snapshot. Fully recomputed per call, no
// caching.
type Service interface {
	Compute(ctx context.Context, principal authz.Principal, now time.Time) (*Stats, error)
}

type service struct {
	db *gorm.DB
}

// ServiceParams bundles the dependencies required to build the dashboard service.
type ServiceParams struct {
	DB *gorm.DB
}

// NewService constructs the dashboard aggregator.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &service{db: params.DB}, nil
}

// Compute returns the caller's upcoming-visit count and the most visited park
// across all users in the 7 days ending at now (window start inclusive).
// Popularity ties break to the lowest park id so the result is deterministic.
func (s *service) Compute(ctx context.Context, principal authz.Principal, now time.Time) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.WithContext(ctx).
		Table("visits").
		Where("user_id = ? AND end_time >= ?", principal.UserID, now).
		Count(&stats.UpcomingCount).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count upcoming visits")
	}

	windowStart := now.Add(-popularityWindow)

	var top struct {
		ParkName   string `gorm:"column:park_name"`
		VisitCount int64  `gorm:"column:visit_count"`
	}
	err := s.db.WithContext(ctx).
		Table("visits v").
		Select("p.name AS park_name, COUNT(*) AS visit_count").
		Joins("JOIN dog_parks p ON p.id = v.park_id").
		Where("v.start_time >= ?", windowStart).
		Group("p.id, p.name").
		Order("visit_count DESC").
		Order("p.id ASC").
		Limit(1).
		Take(&top).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rank parks")
	}

	stats.MostPopularParkName = &top.ParkName
	stats.MostPopularParkCount = top.VisitCount
	return stats, nil
}

package visits

import (
	"time"

	"github.com/parkpals/parkpals-backend/internal/dogs"
	"github.com/parkpals/parkpals-backend/internal/parks"
	"github.com/parkpals/parkpals-backend/internal/users"
	"github.com/parkpals/parkpals-backend/pkg/db/models"
)

// VisitDTO is the transport shape for a logged visit, flattened with its
// related rows (attending dogs, logging user, park).
type VisitDTO struct {
	ID        int64            `json:"id"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Notes     *string          `json:"notes,omitempty"`
	UserID    int64            `json:"user_id"`
	ParkID    int64            `json:"park_id"`
	CreatedAt time.Time        `json:"created_at"`
	Dogs      []dogs.DogDTO    `json:"dogs"`
	User      *users.PublicDTO `json:"user,omitempty"`
	Park      *parks.ParkDTO   `json:"park,omitempty"`
}

// ListFilter narrows the community visit feed. A nil ParkID means all
// parks; a non-nil UpcomingAfter keeps only visits that have not ended
// by that instant.
type ListFilter struct {
	ParkID        *int64
	UpcomingAfter *time.Time
}

// CreateVisitRequest is the payload for logging a visit.
type CreateVisitRequest struct {
	ParkID    int64     `json:"park_id" validate:"required,gt=0"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
	DogIDs    []int64   `json:"dog_ids"`
}

// UpdateVisitRequest carries optional visit fields; nil means leave unchanged.
// A non-nil DogIDs replaces the visit's entire dog set.
type UpdateVisitRequest struct {
	ParkID    *int64     `json:"park_id,omitempty" validate:"omitempty,gt=0"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	DogIDs    *[]int64   `json:"dog_ids,omitempty"`
}

func fromModel(v *models.Visit) *VisitDTO {
	if v == nil {
		return nil
	}

	return &VisitDTO{
		ID:        v.ID,
		StartTime: v.StartTime,
		EndTime:   v.EndTime,
		Notes:     v.Notes,
		UserID:    v.UserID,
		ParkID:    v.ParkID,
		CreatedAt: v.CreatedAt,
		Dogs:      []dogs.DogDTO{},
	}
}

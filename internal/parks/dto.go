package parks

import (
	"time"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
)

// ParkDTO is the transport shape for a dog park.
type ParkDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description *string   `json:"description,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedByID int64     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateParkRequest is the payload for adding a park.
type CreateParkRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Address     string   `json:"address" validate:"required,min=1,max=300"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// UpdateParkRequest carries optional park fields; nil means leave unchanged.
type UpdateParkRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address     *string  `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

func FromModel(p *models.DogPark) *ParkDTO {
	if p == nil {
		return nil
	}

	return &ParkDTO{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		Description: p.Description,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		CreatedByID: p.CreatedByID,
		CreatedAt:   p.CreatedAt,
	}
}

func FromModels(rows []models.DogPark) []ParkDTO {
	out := make([]ParkDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

package dogs

import (
	"time"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
	"github.com/parkpals/parkpals-backend/pkg/enums"
)

// DogDTO is the transport shape for a registered dog.
type DogDTO struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Breed            string        `json:"breed"`
	Size             enums.DogSize `json:"size"`
	GoodWithOthers   bool          `json:"good_with_others"`
	PersonalityNotes *string       `json:"personality_notes,omitempty"`
	PhotoURL         *string       `json:"photo_url,omitempty"`
	OwnerID          int64         `json:"owner_id"`
	CreatedAt        time.Time     `json:"created_at"`
}

// CreateDogRequest is the payload for registering a dog.
type CreateDogRequest struct {
	Name             string  `json:"name" validate:"required,min=1,max=100"`
	Breed            *string `json:"breed,omitempty" validate:"omitempty,max=100"`
	Size             *string `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	GoodWithOthers   *bool   `json:"good_with_others,omitempty"`
	PersonalityNotes *string `json:"personality_notes,omitempty" validate:"omitempty,max=1000"`
	PhotoURL         *string `json:"photo_url,omitempty" validate:"omitempty,url,max=500"`
}

// UpdateDogRequest carries optional dog fields; nil means leave unchanged.
type UpdateDogRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Breed            *string `json:"breed,omitempty" validate:"omitempty,max=100"`
	Size             *string `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	GoodWithOthers   *bool   `json:"good_with_others,omitempty"`
	PersonalityNotes *string `json:"personality_notes,omitempty" validate:"omitempty,max=1000"`
	PhotoURL         *string `json:"photo_url,omitempty" validate:"omitempty,url,max=500"`
}

func FromModel(d *models.Dog) *DogDTO {
	if d == nil {
		return nil
	}

	return &DogDTO{
		ID:               d.ID,
		Name:             d.Name,
		Breed:            d.Breed,
		Size:             d.Size,
		GoodWithOthers:   d.GoodWithOthers,
		PersonalityNotes: d.PersonalityNotes,
		PhotoURL:         d.PhotoURL,
		OwnerID:          d.OwnerID,
		CreatedAt:        d.CreatedAt,
	}
}

func FromModels(rows []models.Dog) []DogDTO {
	out := make([]DogDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

package models

import (
	"time"

	"github.com/parkpals/parkpals-backend/pkg/enums"
)

// Dog belongs to exactly one owning user.
type Dog struct {
	ID               int64         `gorm:"column:id;primaryKey;autoIncrement"`
	Name             string        `gorm:"column:name;type:text;not null"`
	Breed            string        `gorm:"column:breed;type:text;not null;default:Mixed"`
	Size             enums.DogSize `gorm:"column:size;type:text;not null;default:medium"`
	GoodWithOthers   bool          `gorm:"column:good_with_others;not null;default:true"`
	PersonalityNotes *string       `gorm:"column:personality_notes"`
	PhotoURL         *string       `gorm:"column:photo_url"`
	OwnerID          int64         `gorm:"column:owner_id;not null;index"`
	CreatedAt        time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (Dog) TableName() string {
	return "dogs"
}

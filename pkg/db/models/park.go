package models

import "time"

// DogPark is a shared resource: any user can create one, everyone can read it.
type DogPark struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:text;not null;index"`
	Address     string    `gorm:"column:address;type:text;not null"`
	Description *string   `gorm:"column:description"`
	Latitude    *float64  `gorm:"column:latitude"`
	Longitude   *float64  `gorm:"column:longitude"`
	CreatedByID int64     `gorm:"column:created_by_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DogPark) TableName() string {
	return "dog_parks"
}

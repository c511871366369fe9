package models

// VisitDog links a visit to one attending dog. Pure join row, composite key.
type VisitDog struct {
	VisitID int64 `gorm:"column:visit_id;primaryKey"`
	DogID   int64 `gorm:"column:dog_id;primaryKey"`
}

func (VisitDog) TableName() string {
	return "visit_dogs"
}

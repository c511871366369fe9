package models

import "time"

// Visit records one trip to a park by one user, with a set of dogs attached
// through VisitDog rows.
type Visit struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	StartTime time.Time `gorm:"column:start_time;not null"`
	EndTime   time.Time `gorm:"column:end_time;not null"`
	Notes     *string   `gorm:"column:notes"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	ParkID    int64     `gorm:"column:park_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Visit) TableName() string {
	return "visits"
}

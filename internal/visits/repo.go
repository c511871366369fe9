package visits

import (
	"context"
	"time"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates visit persistence. Mutations that must be atomic
// with link-row changes run through the transactional engine instead.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a visits repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a visit by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Visit, error) {
	var visit models.Visit
	if err := r.db.WithContext(ctx).First(&visit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

// List returns visits matching the filter, earliest start first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Visit, error) {
	query := r.db.WithContext(ctx)
	if filter.ParkID != nil {
		query = query.Where("park_id = ?", *filter.ParkID)
	}
	if filter.UpcomingAfter != nil {
		query = query.Where("end_time >= ?", *filter.UpcomingAfter)
	}

	var visits []models.Visit
	if err := query.
		Order("start_time ASC").Order("id ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

// ListByUser returns one user's visits, earliest start first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Visit, error) {
	var visits []models.Visit
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time ASC").Order("id ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

// ListActiveWindow returns every visit still in progress at now or starting
// before the cutoff, soonest first.
func (r *Repository) ListActiveWindow(ctx context.Context, now, cutoff time.Time) ([]models.Visit, error) {
	var visits []models.Visit
	if err := r.db.WithContext(ctx).
		Where("end_time >= ? AND start_time <= ?", now, cutoff).
		Order("start_time ASC").Order("id ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

// DogsForVisit loads the dogs linked to a visit, ordered by dog id.
func (r *Repository) DogsForVisit(ctx context.Context, visitID int64) ([]models.Dog, error) {
	var linked []models.Dog
	if err := r.db.WithContext(ctx).
		Table("dogs").
		Joins("JOIN visit_dogs vd ON vd.dog_id = dogs.id").
		Where("vd.visit_id = ?", visitID).
		Order("dogs.id ASC").
		Find(&linked).Error; err != nil {
		return nil, err
	}
	return linked, nil
}

// DogsForVisits loads the linked dogs for a batch of visits in one query.
func (r *Repository) DogsForVisits(ctx context.Context, visitIDs []int64) (map[int64][]models.Dog, error) {
	result := make(map[int64][]models.Dog, len(visitIDs))
	if len(visitIDs) == 0 {
		return result, nil
	}

	type linkedDog struct {
		models.Dog
		VisitID int64 `gorm:"column:visit_id"`
	}

	var rows []linkedDog
	if err := r.db.WithContext(ctx).
		Table("dogs").
		Select("dogs.*, vd.visit_id AS visit_id").
		Joins("JOIN visit_dogs vd ON vd.dog_id = dogs.id").
		Where("vd.visit_id IN ?", visitIDs).
		Order("dogs.id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.VisitID] = append(result[row.VisitID], row.Dog)
	}
	return result, nil
}

// Delete removes the visit and its link rows in one transaction.
func (r *Repository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	if err := tx.Where("visit_id = ?", id).Delete(&models.VisitDog{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&models.Visit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

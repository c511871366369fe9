package dogs

import (
	"context"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates dog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a dogs repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new dog and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dog *models.Dog) (*models.Dog, error) {
	if err := r.db.WithContext(ctx).Create(dog).Error; err != nil {
		return nil, err
	}
	return dog, nil
}

// FindByID loads a dog by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Dog, error) {
	var dog models.Dog
	if err := r.db.WithContext(ctx).First(&dog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dog, nil
}

// ListByOwner returns the dogs registered by one user, ordered by id.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Dog, error) {
	var dogs []models.Dog
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&dogs).Error; err != nil {
		return nil, err
	}
	return dogs, nil
}

// List returns all dogs ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Dog, error) {
	var dogs []models.Dog
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&dogs).Error; err != nil {
		return nil, err
	}
	return dogs, nil
}

// FindByIDs resolves the dogs matching the provided id set.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Dog, error) {
	if len(ids) == 0 {
		return []models.Dog{}, nil
	}
	var dogs []models.Dog
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&dogs).Error; err != nil {
		return nil, err
	}
	return dogs, nil
}

// Update applies the supplied column updates and returns the refreshed model.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*models.Dog, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Dog{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the dog row. Link rows cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Dog{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package parks

import (
	"context"
	"strings"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates park persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a parks repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new park and returns the persisted model.
func (r *Repository) Create(ctx context.Context, park *models.DogPark) (*models.DogPark, error) {
	if err := r.db.WithContext(ctx).Create(park).Error; err != nil {
		return nil, err
	}
	return park, nil
}

// FindByID loads a park by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.DogPark, error) {
	var park models.DogPark
	if err := r.db.WithContext(ctx).First(&park, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &park, nil
}

// List returns parks ordered by name, optionally filtered by a search term.
func (r *Repository) List(ctx context.Context, search string) ([]models.DogPark, error) {
	query := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(address) LIKE ?", like, like)
	}

	var parks []models.DogPark
	if err := query.Find(&parks).Error; err != nil {
		return nil, err
	}
	return parks, nil
}

// Update applies the supplied column updates and returns the refreshed model.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) (*models.DogPark, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.DogPark{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the park row. Visits to the park cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.DogPark{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
)

// Repository reads store locations. Locations are seeded by migrations and
// never written through the API.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.Store, error) {
	rows := make([]models.Store, 0)
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store := new(models.Store)
	if err := r.db.WithContext(ctx).Take(store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return store, nil
}

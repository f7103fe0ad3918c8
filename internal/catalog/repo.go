package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
)

// Repository reads the navigation tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListCategories returns every category ordered by position then name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).
		Order("position ASC").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPhoneModels returns every model ordered by brand then position.
func (r *Repository) ListPhoneModels(ctx context.Context) ([]models.PhoneModel, error) {
	var rows []models.PhoneModel
	if err := r.db.WithContext(ctx).
		Order("brand ASC").
		Order("position ASC").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

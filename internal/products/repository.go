package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/pagination"
)

// Repository provides product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// GetByID loads a product regardless of its active flag.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetBySKU matches the SKU case-insensitively.
func (r *Repository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("UPPER(sku) = ?", strings.ToUpper(strings.TrimSpace(sku))).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	// is_active carries a column default, so a false value has to be sent explicitly.
	active := product.IsActive
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	if !active {
		if err := r.db.WithContext(ctx).Model(product).Update("is_active", false).Error; err != nil {
			return nil, err
		}
		product.IsActive = false
	}
	return product, nil
}

// Update persists every column of product.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type listQuery struct {
	Search          string
	CategorySlug    string
	IncludeInactive bool
	Pagination      pagination.Params
}

// List returns newest products first with a cursor for the next page.
func (r *Repository) List(ctx context.Context, query listQuery) (pagination.Page[models.Product], error) {
	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return pagination.Page[models.Product]{}, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if !query.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(brand) LIKE ?)", pattern, pattern, pattern)
	}
	if slug := strings.TrimSpace(query.CategorySlug); slug != "" {
		// A category filter also matches products filed under its direct children.
		qb = qb.Where(
			"category_id IN (SELECT c.id FROM categories c WHERE c.slug = ? OR c.parent_id IN (SELECT p.id FROM categories p WHERE p.slug = ?))",
			slug, slug,
		)
	}

	var rows []models.Product
	if err := qb.Scopes(pagination.Keyset(cursor, query.Pagination.Limit)).Find(&rows).Error; err != nil {
		return pagination.Page[models.Product]{}, err
	}
	return pagination.Trim(rows, query.Pagination.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	}), nil
}

// Suggest returns up to limit active products whose name or SKU contains term.
func (r *Repository) Suggest(ctx context.Context, term string, limit int) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

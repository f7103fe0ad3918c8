package wholesale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
)

// Repository persists wholesale applications.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) AccountRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new application.
func (r *Repository) Create(ctx context.Context, account *models.WholesaleAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByUserID loads the application owned by userID.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.WholesaleAccount, error) {
	var account models.WholesaleAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Decide records the verdict. A nil tier clears any previous tier.
func (r *Repository) Decide(ctx context.Context, id uuid.UUID, status enums.WholesaleStatus, tier *enums.WholesaleTier, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.WholesaleAccount{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"tier":       tier,
			"decided_at": at,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

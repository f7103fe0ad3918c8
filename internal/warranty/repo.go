package warranty

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
)

// Repository persists warranty claims.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ClaimRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a claim.
func (r *Repository) Create(ctx context.Context, claim *models.WarrantyClaim) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(claim).Error
}

// HasOpenClaim reports whether the order line already has an undecided claim.
func (r *Repository) HasOpenClaim(ctx context.Context, orderID uuid.UUID, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WarrantyClaim{}).
		Where("order_id = ? AND UPPER(product_sku) = ?", orderID, strings.ToUpper(sku)).
		Where("status IN ?", []enums.WarrantyClaimStatus{enums.WarrantyStatusSubmitted, enums.WarrantyStatusUnderReview}).
		Count(&count).Error
	return count > 0, err
}

// FindByNumberAndEmail returns the claim only when the email matches.
func (r *Repository) FindByNumberAndEmail(ctx context.Context, claimNumber, email string) (*models.WarrantyClaim, error) {
	var claim models.WarrantyClaim
	err := r.db.WithContext(ctx).
		Where("UPPER(claim_number) = ?", strings.ToUpper(strings.TrimSpace(claimNumber))).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

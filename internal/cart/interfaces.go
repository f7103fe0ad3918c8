package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
)

// ItemRepository defines the persistence surface required by the cart service.
type ItemRepository interface {
	WithTx(tx *gorm.DB) ItemRepository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type accountLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.WholesaleAccount, error)
}

package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
	"github.com/repairdepot/storefront/pkg/outbox"
)

// OrderRepository is the persistence surface of the order service.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByNumberAndEmail(ctx context.Context, orderNumber, email string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from enums.OrderStatus, update StatusUpdate) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

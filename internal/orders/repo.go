package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
)

// Repository reads and advances orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByNumber loads an order and its lines by order number, ignoring case.
func (r *Repository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("UPPER(order_number) = ?", normalizeNumber(orderNumber)).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumberAndEmail matches both the order number and the email on the
// order, so a wrong email looks exactly like a missing order.
func (r *Repository) FindByNumberAndEmail(ctx context.Context, orderNumber, email string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("UPPER(order_number) = ?", normalizeNumber(orderNumber)).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// StatusUpdate is the set of columns a status change writes.
type StatusUpdate struct {
	Status            enums.OrderStatus
	Carrier           *string
	TrackingNumber    *string
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	CancelledAt       *time.Time
	EstimatedDelivery *time.Time
}

// UpdateStatus writes the status change only if the order is still in from.
// It reports false when another writer moved the order first.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from enums.OrderStatus, update StatusUpdate) (bool, error) {
	values := map[string]any{"status": update.Status}
	if update.Carrier != nil {
		values["carrier"] = *update.Carrier
	}
	if update.TrackingNumber != nil {
		values["tracking_number"] = *update.TrackingNumber
	}
	if update.ShippedAt != nil {
		values["shipped_at"] = *update.ShippedAt
	}
	if update.DeliveredAt != nil {
		values["delivered_at"] = *update.DeliveredAt
	}
	if update.CancelledAt != nil {
		values["cancelled_at"] = *update.CancelledAt
	}
	if update.EstimatedDelivery != nil {
		values["estimated_delivery"] = *update.EstimatedDelivery
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func normalizeNumber(orderNumber string) string {
	return strings.ToUpper(strings.TrimSpace(orderNumber))
}

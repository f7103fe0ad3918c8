package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// Order is a placed order as seen by fulfillment and order tracking.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       string            `gorm:"column:order_number;not null;uniqueIndex"`
	UserID            *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	Email             string            `gorm:"column:email;not null"`
	Status            enums.OrderStatus `gorm:"column:status;type:text;not null;default:'processing'"`
	Carrier           *string           `gorm:"column:carrier"`
	TrackingNumber    *string           `gorm:"column:tracking_number"`
	TotalCents        int64             `gorm:"column:total_cents;not null"`
	PlacedAt          time.Time         `gorm:"column:placed_at;not null"`
	ShippedAt         *time.Time        `gorm:"column:shipped_at"`
	DeliveredAt       *time.Time        `gorm:"column:delivered_at"`
	CancelledAt       *time.Time        `gorm:"column:cancelled_at"`
	EstimatedDelivery *time.Time        `gorm:"column:estimated_delivery"`
	LineItems         []OrderLineItem   `gorm:"foreignKey:OrderID;references:ID"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem snapshots the product at the time the order was placed.
type OrderLineItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID `gorm:"column:product_id;type:uuid"`
	SKU            string     `gorm:"column:sku;not null"`
	Name           string     `gorm:"column:name;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	UnitPriceCents int64      `gorm:"column:unit_price_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}

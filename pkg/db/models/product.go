package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable part or accessory.
type Product struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU          string     `gorm:"column:sku;not null;uniqueIndex"`
	Name         string     `gorm:"column:name;not null"`
	Slug         string     `gorm:"column:slug;not null"`
	Description  string     `gorm:"column:description;not null;default:''"`
	Brand        string     `gorm:"column:brand;not null;default:''"`
	CategoryID   *uuid.UUID `gorm:"column:category_id;type:uuid"`
	PhoneModelID *uuid.UUID `gorm:"column:phone_model_id;type:uuid"`
	PriceCents   int64      `gorm:"column:price_cents;not null"`
	StockQty     int        `gorm:"column:stock_qty;not null;default:0"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	ImageURL     *string    `gorm:"column:image_url"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

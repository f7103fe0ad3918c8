package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// WarrantyClaim is a customer claim against a delivered order.
type WarrantyClaim struct {
	ID          uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClaimNumber string                    `gorm:"column:claim_number;not null;uniqueIndex"`
	OrderID     uuid.UUID                 `gorm:"column:order_id;type:uuid;not null"`
	OrderNumber string                    `gorm:"column:order_number;not null"`
	Email       string                    `gorm:"column:email;not null"`
	ProductSKU  string                    `gorm:"column:product_sku;not null"`
	Reason      string                    `gorm:"column:reason;not null"`
	Description string                    `gorm:"column:description;not null"`
	Status      enums.WarrantyClaimStatus `gorm:"column:status;type:text;not null;default:'submitted'"`
	CreatedAt   time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

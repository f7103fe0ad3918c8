package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// WholesaleAccount is a business application and, once approved, its tier.
type WholesaleAccount struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID             `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName string                `gorm:"column:business_name;not null"`
	TaxID        string                `gorm:"column:tax_id;not null"`
	ContactEmail string                `gorm:"column:contact_email;not null"`
	Phone        string                `gorm:"column:phone;not null"`
	BusinessType string                `gorm:"column:business_type;not null"`
	Status       enums.WholesaleStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Tier         *enums.WholesaleTier  `gorm:"column:tier;type:text"`
	DecidedAt    *time.Time            `gorm:"column:decided_at"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveTier returns the tier only when the account is approved.
func (w *WholesaleAccount) ActiveTier() (enums.WholesaleTier, bool) {
	if w == nil || w.Status != enums.WholesaleStatusApproved || w.Tier == nil {
		return "", false
	}
	return *w.Tier, true
}

package wholesale

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// ApplyInput is the application form. Validate checks it field by field.
type ApplyInput struct {
	BusinessName string `json:"business_name" validate:"required"`
	TaxID        string `json:"tax_id" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,phone"`
	BusinessType string `json:"business_type" validate:"required"`
}

// DecisionInput is the admin verdict payload.
type DecisionInput struct {
	Decision string `json:"decision" validate:"required"`
	Tier     string `json:"tier"`
}

// AccountDTO is what the applicant and admins see.
type AccountDTO struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	BusinessName    string                `json:"business_name"`
	ContactEmail    string                `json:"contact_email"`
	BusinessType    string                `json:"business_type"`
	Status          enums.WholesaleStatus `json:"status"`
	Tier            *enums.WholesaleTier  `json:"tier,omitempty"`
	DiscountPercent int                   `json:"discount_percent"`
	DecidedAt       *time.Time            `json:"decided_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// FieldError names the form field that failed.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

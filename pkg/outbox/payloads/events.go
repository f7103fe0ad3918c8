package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// OrderStatusChangedEvent tells the mailer an order moved along fulfillment.
type OrderStatusChangedEvent struct {
	OrderID        uuid.UUID         `json:"order_id"`
	OrderNumber    string            `json:"order_number"`
	Email          string            `json:"email"`
	From           enums.OrderStatus `json:"from"`
	To             enums.OrderStatus `json:"to"`
	Carrier        *string           `json:"carrier,omitempty"`
	TrackingNumber *string           `json:"tracking_number,omitempty"`
	ChangedAt      time.Time         `json:"changed_at"`
}

// RepairTicketCreatedEvent carries the booking confirmation details.
type RepairTicketCreatedEvent struct {
	TicketID      uuid.UUID         `json:"ticket_id"`
	TicketNumber  string            `json:"ticket_number"`
	ContactName   string            `json:"contact_name"`
	ContactEmail  string            `json:"contact_email"`
	Device        string            `json:"device"`
	ServiceType   enums.ServiceType `json:"service_type"`
	StoreID       *uuid.UUID        `json:"store_id,omitempty"`
	PreferredDate string            `json:"preferred_date"`
}

// WarrantyClaimSubmittedEvent acknowledges a new warranty claim.
type WarrantyClaimSubmittedEvent struct {
	ClaimID     uuid.UUID `json:"claim_id"`
	ClaimNumber string    `json:"claim_number"`
	OrderNumber string    `json:"order_number"`
	Email       string    `json:"email"`
	ProductSKU  string    `json:"product_sku"`
}

// PasswordResetRequestedEvent hands the mailer the one-time reset token.
type PasswordResetRequestedEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetCompletedEvent confirms the password was changed.
type PasswordResetCompletedEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// WholesaleApplicationSubmittedEvent notifies staff of a new application.
type WholesaleApplicationSubmittedEvent struct {
	AccountID    uuid.UUID `json:"account_id"`
	UserID       uuid.UUID `json:"user_id"`
	BusinessName string    `json:"business_name"`
	ContactEmail string    `json:"contact_email"`
}

// WholesaleApplicationDecidedEvent tells the applicant the outcome.
type WholesaleApplicationDecidedEvent struct {
	AccountID    uuid.UUID             `json:"account_id"`
	UserID       uuid.UUID             `json:"user_id"`
	ContactEmail string                `json:"contact_email"`
	Status       enums.WholesaleStatus `json:"status"`
	Tier         *enums.WholesaleTier  `json:"tier,omitempty"`
}

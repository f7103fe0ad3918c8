package warranty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db"
	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/outbox"
	"github.com/repairdepot/storefront/pkg/outbox/payloads"
	"github.com/repairdepot/storefront/pkg/security"
)

// Window is how long after delivery a claim is accepted.
const Window = 90 * 24 * time.Hour

const (
	claimPrefix    = "WAR"
	claimLength    = 6
	numberAttempts = 3
	minDescription = 10
)

// ClaimRepository is the persistence surface of the warranty service.
type ClaimRepository interface {
	WithTx(tx *gorm.DB) ClaimRepository
	Create(ctx context.Context, claim *models.WarrantyClaim) error
	HasOpenClaim(ctx context.Context, orderID uuid.UUID, sku string) (bool, error)
	FindByNumberAndEmail(ctx context.Context, claimNumber, email string) (*models.WarrantyClaim, error)
}

type orderLoader interface {
	FindByNumberAndEmail(ctx context.Context, orderNumber, email string) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// SubmitInput is a customer warranty claim.
type SubmitInput struct {
	OrderNumber string
	Email       string
	ProductSKU  string
	Reason      string
	Description string
}

// ClaimDTO is the customer view of a claim.
type ClaimDTO struct {
	ClaimNumber string                    `json:"claim_number"`
	OrderNumber string                    `json:"order_number"`
	ProductSKU  string                    `json:"product_sku"`
	Reason      string                    `json:"reason"`
	Status      enums.WarrantyClaimStatus `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// Service accepts and reports warranty claims.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*ClaimDTO, error)
	Status(ctx context.Context, claimNumber, email string) (*ClaimDTO, error)
}

type service struct {
	repo     ClaimRepository
	orders   orderLoader
	tx       txRunner
	outbox   outboxPublisher
	now      func() time.Time
	generate func() (string, error)
}

// NewService builds the warranty service.
func NewService(repo ClaimRepository, orders orderLoader, tx txRunner, outbox outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warranty repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		orders: orders,
		tx:     tx,
		outbox: outbox,
		now:    time.Now,
		generate: func() (string, error) {
			return security.GenerateReference(claimPrefix, claimLength)
		},
	}, nil
}

// Submit accepts a claim for a delivered order line still inside the window.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*ClaimDTO, error) {
	input.OrderNumber = strings.TrimSpace(input.OrderNumber)
	input.Email = strings.TrimSpace(input.Email)
	input.ProductSKU = strings.ToUpper(strings.TrimSpace(input.ProductSKU))
	input.Reason = strings.TrimSpace(input.Reason)
	input.Description = strings.TrimSpace(input.Description)

	switch {
	case input.OrderNumber == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	case input.Email == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	case input.ProductSKU == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product sku is required")
	case input.Reason == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	case utf8.RuneCountInString(input.Description) < minDescription:
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "description must be at least %d characters", minDescription)
	}

	order, err := s.orders.FindByNumberAndEmail(ctx, input.OrderNumber, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order matches that order number and email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := checkEligibility(order, input.ProductSKU, s.now()); err != nil {
		return nil, err
	}
	open, err := s.repo.HasOpenClaim(ctx, order.ID, input.ProductSKU)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing claims")
	}
	if open {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a claim for this item is already being reviewed")
	}

	claim := &models.WarrantyClaim{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		ProductSKU:  input.ProductSKU,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      enums.WarrantyStatusSubmitted,
	}
	var lastErr error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := s.generate()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate claim number")
		}
		claim.ID = uuid.New()
		claim.ClaimNumber = number
		lastErr = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, claim); err != nil {
				return err
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventWarrantyClaimSubmitted,
				AggregateType: enums.AggregateWarrantyClaim,
				AggregateID:   claim.ID,
				Data: payloads.WarrantyClaimSubmittedEvent{
					ClaimID:     claim.ID,
					ClaimNumber: claim.ClaimNumber,
					OrderNumber: claim.OrderNumber,
					Email:       claim.Email,
					ProductSKU:  claim.ProductSKU,
				},
			})
		})
		if lastErr == nil {
			return toDTO(claim), nil
		}
		if !db.IsUniqueViolation(lastErr, "warranty_claims_claim_number_key") &&
			!db.IsUniqueViolation(lastErr, "warranty_claims.claim_number") {
			break
		}
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "create warranty claim")
}

// checkEligibility requires a delivered order, a delivery date inside the
// window, and the SKU among the order's lines.
func checkEligibility(order *models.Order, sku string, now time.Time) error {
	if order.Status != enums.OrderStatusDelivered || order.DeliveredAt == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "warranty claims can only be filed for delivered orders")
	}
	if now.Sub(*order.DeliveredAt) > Window {
		return pkgerrors.New(pkgerrors.CodeConflict, "the 90-day warranty period for this order has ended")
	}
	for _, line := range order.LineItems {
		if strings.EqualFold(line.SKU, sku) {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "that product is not part of this order")
}

func (s *service) Status(ctx context.Context, claimNumber, email string) (*ClaimDTO, error) {
	if strings.TrimSpace(claimNumber) == "" || strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "claim number and email are required")
	}
	claim, err := s.repo.FindByNumberAndEmail(ctx, claimNumber, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no claim matches that claim number and email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warranty claim")
	}
	return toDTO(claim), nil
}

func toDTO(c *models.WarrantyClaim) *ClaimDTO {
	return &ClaimDTO{
		ClaimNumber: c.ClaimNumber,
		OrderNumber: c.OrderNumber,
		ProductSKU:  c.ProductSKU,
		Reason:      c.Reason,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

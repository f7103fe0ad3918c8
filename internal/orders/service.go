package orders

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/outbox"
	"github.com/repairdepot/storefront/pkg/outbox/payloads"
)

// Service exposes order tracking and fulfillment updates.
type Service interface {
	Track(ctx context.Context, orderNumber, email string) (*TrackingResult, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TrackingResult, error)
}

// UpdateStatusInput is an admin fulfillment change.
type UpdateStatusInput struct {
	OrderNumber       string
	Status            enums.OrderStatus
	Carrier           *string
	TrackingNumber    *string
	EstimatedDelivery *time.Time
	ActorUserID       uuid.UUID
	ActorRole         enums.Role
}

type service struct {
	repo   OrderRepository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService builds the order service.
func NewService(repo OrderRepository, tx txRunner, outbox outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outbox, now: time.Now}, nil
}

func (s *service) Track(ctx context.Context, orderNumber, email string) (*TrackingResult, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	email = strings.TrimSpace(email)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}

	order, err := s.repo.FindByNumberAndEmail(ctx, orderNumber, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order matches that order number and email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewTrackingResult(order), nil
}

// UpdateStatus moves an order one step along fulfillment, or cancels it,
// and queues the notification in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*TrackingResult, error) {
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.OrderNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", input.Status)
	}
	carrier := trimmedOrNil(input.Carrier)
	tracking := trimmedOrNil(input.TrackingNumber)
	if input.Status == enums.OrderStatusShipped && tracking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking_number is required to mark an order shipped")
	}

	var result *TrackingResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByNumber(ctx, input.OrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		from := order.Status
		if !from.CanTransitionTo(input.Status) {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "cannot move order from %s to %s", from, input.Status).
				WithDetails(map[string]any{"current_status": from})
		}

		now := s.now().UTC()
		update := StatusUpdate{
			Status:            input.Status,
			Carrier:           carrier,
			TrackingNumber:    tracking,
			EstimatedDelivery: input.EstimatedDelivery,
		}
		switch input.Status {
		case enums.OrderStatusShipped:
			update.ShippedAt = &now
		case enums.OrderStatusDelivered:
			update.DeliveredAt = &now
		case enums.OrderStatusCancelled:
			update.CancelledAt = &now
		}
		changed, err := repo.UpdateStatus(ctx, order.ID, from, update)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !changed {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was updated concurrently")
		}

		order.Status = input.Status
		if carrier != nil {
			order.Carrier = carrier
		}
		if tracking != nil {
			order.TrackingNumber = tracking
		}
		if input.EstimatedDelivery != nil {
			order.EstimatedDelivery = input.EstimatedDelivery
		}
		order.ShippedAt = coalesce(update.ShippedAt, order.ShippedAt)
		order.DeliveredAt = coalesce(update.DeliveredAt, order.DeliveredAt)
		order.CancelledAt = coalesce(update.CancelledAt, order.CancelledAt)

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.Actor{UserID: input.ActorUserID, Role: string(input.ActorRole)},
			OccurredAt:    now,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:        order.ID,
				OrderNumber:    order.OrderNumber,
				Email:          order.Email,
				From:           from,
				To:             input.Status,
				Carrier:        order.Carrier,
				TrackingNumber: order.TrackingNumber,
				ChangedAt:      now,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order status event")
		}
		result = NewTrackingResult(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func coalesce(values ...*time.Time) *time.Time {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

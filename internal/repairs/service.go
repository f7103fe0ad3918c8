package repairs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const (
	ticketPrefix   = "RPR"
	ticketLength   = 6
	numberAttempts = 3
)

// TicketRepository is the persistence surface of the repair service.
type TicketRepository interface {
	WithTx(tx *gorm.DB) TicketRepository
	Create(ctx context.Context, ticket *models.RepairTicket) error
	FindByNumberAndEmail(ctx context.Context, ticketNumber, email string) (*models.RepairTicket, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// TicketDTO is the customer view of a repair ticket.
type TicketDTO struct {
	TicketNumber  string             `json:"ticket_number"`
	Status        enums.RepairStatus `json:"status"`
	DeviceBrand   string             `json:"device_brand"`
	DeviceModel   string             `json:"device_model"`
	IssueCategory string             `json:"issue_category"`
	ServiceType   enums.ServiceType  `json:"service_type"`
	StoreID       *uuid.UUID         `json:"store_id,omitempty"`
	PreferredDate string             `json:"preferred_date"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Service books and tracks repairs.
type Service interface {
	Create(ctx context.Context, form Form) (*TicketDTO, error)
	Track(ctx context.Context, ticketNumber, email string) (*TicketDTO, error)
}

type service struct {
	repo     TicketRepository
	tx       txRunner
	outbox   outboxPublisher
	stores   storeLoader
	now      func() time.Time
	generate func() (string, error)
}

// NewService builds the repair booking service.
func NewService(repo TicketRepository, tx txRunner, outbox outboxPublisher, stores storeLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repair repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outbox,
		stores: stores,
		now:    time.Now,
		generate: func() (string, error) {
			return security.GenerateReference(ticketPrefix, ticketLength)
		},
	}, nil
}

// Create re-runs every wizard step before booking.
func (s *service) Create(ctx context.Context, form Form) (*TicketDTO, error) {
	now := s.now()
	if errs := ValidateAll(form, now); len(errs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, errs[0].Message).WithDetails(errs)
	}

	var storeID *uuid.UUID
	if form.ServiceType == enums.ServiceTypeInStore {
		id, err := uuid.Parse(strings.TrimSpace(form.StoreID))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_id must be a valid id")
		}
		if _, err := s.stores.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected store does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
		storeID = &id
	}
	preferred, _ := time.ParseInLocation(DateLayout, strings.TrimSpace(form.PreferredDate), now.Location())

	ticket := &models.RepairTicket{
		DeviceBrand:      strings.TrimSpace(form.DeviceBrand),
		DeviceModel:      strings.TrimSpace(form.DeviceModel),
		IssueCategory:    strings.TrimSpace(form.IssueCategory),
		IssueDescription: strings.TrimSpace(form.IssueDescription),
		ContactName:      strings.TrimSpace(form.Name),
		ContactEmail:     strings.TrimSpace(form.Email),
		ContactPhone:     strings.TrimSpace(form.Phone),
		ServiceType:      form.ServiceType,
		StoreID:          storeID,
		PreferredDate:    preferred,
		Status:           enums.RepairStatusReceived,
	}

	var lastErr error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := s.generate()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate ticket number")
		}
		ticket.ID = uuid.New()
		ticket.TicketNumber = number
		lastErr = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, ticket); err != nil {
				return err
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventRepairTicketCreated,
				AggregateType: enums.AggregateRepairTicket,
				AggregateID:   ticket.ID,
				Data: payloads.RepairTicketCreatedEvent{
					TicketID:      ticket.ID,
					TicketNumber:  ticket.TicketNumber,
					ContactName:   ticket.ContactName,
					ContactEmail:  ticket.ContactEmail,
					Device:        ticket.DeviceBrand + " " + ticket.DeviceModel,
					ServiceType:   ticket.ServiceType,
					StoreID:       ticket.StoreID,
					PreferredDate: ticket.PreferredDate.Format(DateLayout),
				},
			})
		})
		if lastErr == nil {
			return toDTO(ticket), nil
		}
		if !isNumberCollision(lastErr) {
			break
		}
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "create repair ticket")
}

func (s *service) Track(ctx context.Context, ticketNumber, email string) (*TicketDTO, error) {
	if strings.TrimSpace(ticketNumber) == "" || strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket number and email are required")
	}
	ticket, err := s.repo.FindByNumberAndEmail(ctx, ticketNumber, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no repair matches that ticket number and email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair ticket")
	}
	return toDTO(ticket), nil
}

// isNumberCollision matches the Postgres constraint or the sqlite column message.
func isNumberCollision(err error) bool {
	return db.IsUniqueViolation(err, "repair_tickets_ticket_number_key") ||
		db.IsUniqueViolation(err, "repair_tickets.ticket_number")
}

func toDTO(t *models.RepairTicket) *TicketDTO {
	return &TicketDTO{
		TicketNumber:  t.TicketNumber,
		Status:        t.Status,
		DeviceBrand:   t.DeviceBrand,
		DeviceModel:   t.DeviceModel,
		IssueCategory: t.IssueCategory,
		ServiceType:   t.ServiceType,
		StoreID:       t.StoreID,
		PreferredDate: t.PreferredDate.Format(DateLayout),
		CreatedAt:     t.CreatedAt,
	}
}

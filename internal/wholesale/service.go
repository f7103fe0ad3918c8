package wholesale

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/internal/pricing"
	"github.com/repairdepot/storefront/pkg/db"
	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/outbox"
	"github.com/repairdepot/storefront/pkg/outbox/payloads"
	"github.com/repairdepot/storefront/pkg/validate"
)

// AccountRepository is the persistence surface of the wholesale service.
type AccountRepository interface {
	WithTx(tx *gorm.DB) AccountRepository
	Create(ctx context.Context, account *models.WholesaleAccount) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.WholesaleAccount, error)
	Decide(ctx context.Context, id uuid.UUID, status enums.WholesaleStatus, tier *enums.WholesaleTier, at time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service handles wholesale applications and their review.
type Service interface {
	Apply(ctx context.Context, userID uuid.UUID, input ApplyInput) (*AccountDTO, error)
	Account(ctx context.Context, userID uuid.UUID) (*AccountDTO, error)
	Decide(ctx context.Context, actorID, userID uuid.UUID, input DecisionInput) (*AccountDTO, error)
}

type service struct {
	repo   AccountRepository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService wires the wholesale service.
func NewService(repo AccountRepository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wholesale repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher, now: time.Now}, nil
}

var applyMessages = map[string]string{
	"business_name": "Business name is required",
	"tax_id":        "Tax ID is required",
	"contact_email": "Enter a valid email address",
	"phone":         "Enter a valid phone number",
	"business_type": "Business type is required",
}

// Validate trims the application form and reports every failing field.
func Validate(input *ApplyInput) []FieldError {
	input.BusinessName = strings.TrimSpace(input.BusinessName)
	input.TaxID = strings.TrimSpace(input.TaxID)
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)
	input.Phone = strings.TrimSpace(input.Phone)
	input.BusinessType = strings.TrimSpace(input.BusinessType)

	verrs, ok := validate.Errors(validate.Default().Struct(input))
	if !ok {
		return []FieldError{{Field: "form", Message: "Application could not be validated"}}
	}
	errs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, FieldError{Field: fe.Field(), Message: applyMessages[fe.Field()]})
	}
	return errs
}

func (s *service) Apply(ctx context.Context, userID uuid.UUID, input ApplyInput) (*AccountDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if errs := Validate(&input); len(errs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, errs[0].Message).WithDetails(errs)
	}

	_, err := s.repo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a wholesale application already exists for this account")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesale account")
	}

	account := &models.WholesaleAccount{
		ID:           uuid.New(),
		UserID:       userID,
		BusinessName: input.BusinessName,
		TaxID:        input.TaxID,
		ContactEmail: input.ContactEmail,
		Phone:        input.Phone,
		BusinessType: input.BusinessType,
		Status:       enums.WholesaleStatusPending,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, account); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventWholesaleApplicationSubmitted,
			AggregateType: enums.AggregateWholesaleAccount,
			AggregateID:   account.ID,
			Actor:         &outbox.Actor{UserID: userID, Role: string(enums.RoleCustomer)},
			Data: payloads.WholesaleApplicationSubmittedEvent{
				AccountID:    account.ID,
				UserID:       userID,
				BusinessName: account.BusinessName,
				ContactEmail: account.ContactEmail,
			},
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "wholesale_accounts_user_id_key") || db.IsUniqueViolation(err, "wholesale_accounts.user_id") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a wholesale application already exists for this account")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wholesale application")
	}
	return toDTO(account), nil
}

func (s *service) Account(ctx context.Context, userID uuid.UUID) (*AccountDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	account, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no wholesale application found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wholesale account")
	}
	return toDTO(account), nil
}

// Decide approves or rejects the application owned by userID. A decided
// account can be decided again, which is how tiers change.
func (s *service) Decide(ctx context.Context, actorID, userID uuid.UUID, input DecisionInput) (*AccountDTO, error) {
	decision, err := enums.ParseWholesaleDecision(input.Decision)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decision must be approve or reject")
	}

	var (
		status = enums.WholesaleStatusRejected
		tier   *enums.WholesaleTier
	)
	if decision == enums.WholesaleDecisionApprove {
		parsed, err := enums.ParseWholesaleTier(input.Tier)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tier must be bronze, silver or gold")
		}
		status = enums.WholesaleStatusApproved
		tier = &parsed
	}

	var account *models.WholesaleAccount
	decidedAt := s.now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := repo.Decide(ctx, found.ID, status, tier, decidedAt); err != nil {
			return err
		}
		found.Status = status
		found.Tier = tier
		found.DecidedAt = &decidedAt
		account = found

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventWholesaleApplicationDecided,
			AggregateType: enums.AggregateWholesaleAccount,
			AggregateID:   found.ID,
			Actor:         &outbox.Actor{UserID: actorID, Role: string(enums.RoleAdmin)},
			Data: payloads.WholesaleApplicationDecidedEvent{
				AccountID:    found.ID,
				UserID:       found.UserID,
				ContactEmail: found.ContactEmail,
				Status:       status,
				Tier:         tier,
			},
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no wholesale application found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record wholesale decision")
	}
	return toDTO(account), nil
}

func toDTO(account *models.WholesaleAccount) *AccountDTO {
	dto := &AccountDTO{
		ID:           account.ID,
		UserID:       account.UserID,
		BusinessName: account.BusinessName,
		ContactEmail: account.ContactEmail,
		BusinessType: account.BusinessType,
		Status:       account.Status,
		Tier:         account.Tier,
		DecidedAt:    account.DecidedAt,
		CreatedAt:    account.CreatedAt,
	}
	if tier, ok := account.ActiveTier(); ok {
		dto.DiscountPercent = pricing.WholesaleDiscountPercent(tier)
	}
	return dto
}

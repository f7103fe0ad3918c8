package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/internal/users"
	"github.com/repairdepot/storefront/pkg/config"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/logger"
	"github.com/repairdepot/storefront/pkg/outbox"
	"github.com/repairdepot/storefront/pkg/outbox/payloads"
	storeredis "github.com/repairdepot/storefront/pkg/redis"
	"github.com/repairdepot/storefront/pkg/security"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	resetTokenBytes   = 32

	invalidTokenMessage = "This reset link is invalid or has expired."
)

// Service runs the password recovery flow.
type Service interface {
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
}

type tokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	ResetTokenKey(tokenHash string) string
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users       *users.Repository
	Tokens      tokenStore
	Tx          txRunner
	Outbox      outboxPublisher
	PasswordCfg config.PasswordConfig
	RateLimit   config.RateLimitConfig
	Logger      *logger.Logger
}

type service struct {
	users       *users.Repository
	tokens      tokenStore
	tx          txRunner
	outbox      outboxPublisher
	passwordCfg config.PasswordConfig
	rateLimit   config.RateLimitConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the password recovery service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		users:       params.Users,
		tokens:      params.Tokens,
		tx:          params.Tx,
		outbox:      params.Outbox,
		passwordCfg: params.PasswordCfg,
		rateLimit:   params.RateLimit,
		logg:        logg,
		now:         time.Now,
	}, nil
}

// ForgotPassword answers with the same message whether or not the account
// exists. Only known accounts get a token and a mail event.
func (s *service) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if s.rateLimit.ForgotMailCap > 0 && s.rateLimit.ForgotWindow > 0 {
		scope := "forgot_password:email:" + security.HashToken(strings.ToLower(email))
		allowed, _, err := s.tokens.FixedWindowAllow(ctx, scope, int64(s.rateLimit.ForgotMailCap), s.rateLimit.ForgotWindow)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check reset rate limit")
		}
		if !allowed {
			s.logg.Warn(ctx, "password reset email cap reached")
			return ForgotPasswordMessage, nil
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Debug(ctx, "password reset requested for unknown email")
			return ForgotPasswordMessage, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	token, err := security.GenerateToken(resetTokenBytes)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	ttl := s.passwordCfg.ResetTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	key := s.tokens.ResetTokenKey(security.HashToken(token))
	if err := s.tokens.Set(ctx, key, user.ID.String(), ttl); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}

	expiresAt := s.now().UTC().Add(ttl)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPasswordResetRequested,
			AggregateType: enums.AggregateUser,
			AggregateID:   user.ID,
			Data: payloads.PasswordResetRequestedEvent{
				UserID:    user.ID,
				Email:     user.Email,
				Token:     token,
				ExpiresAt: expiresAt,
			},
		})
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue reset email")
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "password reset token issued")
	return ForgotPasswordMessage, nil
}

// ResetPassword consumes the token before writing the new hash, so a token
// can never be used twice.
func (s *service) ResetPassword(ctx context.Context, token, password string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	raw, err := s.tokens.GetDel(ctx, s.tokens.ResetTokenKey(security.HashToken(token)))
	if err != nil {
		if errors.Is(err, storeredis.Nil) {
			return "", pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset token")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeValidation, invalidTokenMessage)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPasswordResetCompleted,
			AggregateType: enums.AggregateUser,
			AggregateID:   user.ID,
			Data:          payloads.PasswordResetCompletedEvent{UserID: user.ID, Email: user.Email},
		})
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "password reset completed")
	return ResetPasswordMessage, nil
}

// ValidatePassword enforces the length policy in characters.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "password must be at least %d characters", minPasswordLength)
	}
	if n > maxPasswordLength {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

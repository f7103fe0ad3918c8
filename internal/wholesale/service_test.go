package wholesale

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db"
	"github.com/repairdepot/storefront/pkg/db/dbtest"
	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/outbox"
)

var decidedAt = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), db.Wrap(conn), outbox.NewService(outbox.NewRepository(conn), nil))
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return decidedAt }
	return impl, conn
}

func validApplication() ApplyInput {
	return ApplyInput{
		BusinessName: "  Fix-It Phones LLC ",
		TaxID:        "12-3456789",
		ContactEmail: "ops@fixit.example",
		Phone:        "(555) 010-2000",
		BusinessType: "repair_shop",
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, code, typed.Code())
}

func countEvents(t *testing.T, conn *gorm.DB, eventType enums.OutboxEventType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Where("event_type = ?", eventType).Count(&n).Error)
	return n
}

func TestValidateReportsEveryField(t *testing.T) {
	input := ApplyInput{ContactEmail: "nope", Phone: "555-12"}
	errs := Validate(&input)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"business_name", "tax_id", "contact_email", "phone", "business_type"}, fields)
}

func TestValidateTrimsBeforeCheckingTags(t *testing.T) {
	input := validApplication()
	input.ContactEmail = "  buyer@fixitphones.com "
	input.Phone = " (555) 010-2030 "
	assert.Empty(t, Validate(&input))
	assert.Equal(t, "buyer@fixitphones.com", input.ContactEmail)

	input.Phone = "555-010-203"
	input.BusinessName = "   "
	errs := Validate(&input)
	require.Len(t, errs, 2)
	assert.Equal(t, FieldError{Field: "business_name", Message: "Business name is required"}, errs[0])
	assert.Equal(t, FieldError{Field: "phone", Message: "Enter a valid phone number"}, errs[1])
}

func TestApplyStoresPendingApplication(t *testing.T) {
	svc, conn := newTestService(t)
	userID := uuid.New()

	dto, err := svc.Apply(context.Background(), userID, validApplication())
	require.NoError(t, err)
	assert.Equal(t, enums.WholesaleStatusPending, dto.Status)
	assert.Equal(t, "Fix-It Phones LLC", dto.BusinessName)
	assert.Nil(t, dto.Tier)
	assert.Zero(t, dto.DiscountPercent)
	assert.EqualValues(t, 1, countEvents(t, conn, enums.EventWholesaleApplicationSubmitted))
}

func TestApplyTwiceConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()
	_, err := svc.Apply(context.Background(), userID, validApplication())
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), userID, validApplication())
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestApplyRejectsInvalidForm(t *testing.T) {
	svc, conn := newTestService(t)
	input := validApplication()
	input.Phone = "12345"

	_, err := svc.Apply(context.Background(), uuid.New(), input)
	requireCode(t, err, pkgerrors.CodeValidation)
	details, ok := pkgerrors.As(err).Details().([]FieldError)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "phone", details[0].Field)
	assert.Zero(t, countEvents(t, conn, enums.EventWholesaleApplicationSubmitted))
}

func TestApplyRequiresUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Apply(context.Background(), uuid.Nil, validApplication())
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestAccountNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Account(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDecideApproveSetsTier(t *testing.T) {
	svc, conn := newTestService(t)
	userID := uuid.New()
	_, err := svc.Apply(context.Background(), userID, validApplication())
	require.NoError(t, err)

	dto, err := svc.Decide(context.Background(), uuid.New(), userID, DecisionInput{Decision: "Approve", Tier: "silver"})
	require.NoError(t, err)
	assert.Equal(t, enums.WholesaleStatusApproved, dto.Status)
	require.NotNil(t, dto.Tier)
	assert.Equal(t, enums.WholesaleTierSilver, *dto.Tier)
	assert.Equal(t, 10, dto.DiscountPercent)
	assert.EqualValues(t, 1, countEvents(t, conn, enums.EventWholesaleApplicationDecided))

	stored, err := svc.Account(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, enums.WholesaleStatusApproved, stored.Status)
	require.NotNil(t, stored.DecidedAt)
	assert.True(t, decidedAt.Equal(*stored.DecidedAt))
}

func TestDecideRejectClearsTier(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()
	_, err := svc.Apply(context.Background(), userID, validApplication())
	require.NoError(t, err)
	_, err = svc.Decide(context.Background(), uuid.New(), userID, DecisionInput{Decision: "approve", Tier: "gold"})
	require.NoError(t, err)

	dto, err := svc.Decide(context.Background(), uuid.New(), userID, DecisionInput{Decision: "reject"})
	require.NoError(t, err)
	assert.Equal(t, enums.WholesaleStatusRejected, dto.Status)
	assert.Nil(t, dto.Tier)
	assert.Zero(t, dto.DiscountPercent)
}

func TestDecideValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	_, err := svc.Decide(context.Background(), uuid.New(), userID, DecisionInput{Decision: "maybe"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Decide(context.Background(), uuid.New(), userID, DecisionInput{Decision: "approve", Tier: "platinum"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Decide(context.Background(), uuid.New(), userID, DecisionInput{Decision: "reject"})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

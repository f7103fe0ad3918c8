package orders

import (
	"context"
	"encoding/json"
	"errors"
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
	"github.com/repairdepot/storefront/pkg/outbox/payloads"
)

var placedAt = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func seedOrder(t *testing.T, conn *gorm.DB, number, email string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: number,
		Email:       email,
		Status:      enums.OrderStatusProcessing,
		TotalCents:  4599,
		PlacedAt:    placedAt,
		LineItems: []models.OrderLineItem{
			{ID: uuid.New(), SKU: "SCR-IP13", Name: "iPhone 13 Screen", Quantity: 1, UnitPriceCents: 4599},
		},
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func newTestService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), db.Wrap(conn), outbox.NewService(outbox.NewRepository(conn), nil))
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return placedAt.Add(48 * time.Hour) }
	return impl, conn
}

func strPtr(s string) *string { return &s }

func TestTrackMatchesNumberAndEmail(t *testing.T) {
	svc, conn := newTestService(t)
	seedOrder(t, conn, "SF-100200", "Buyer@Example.com")
	ctx := context.Background()

	got, err := svc.Track(ctx, " sf-100200 ", "buyer@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "SF-100200", got.OrderNumber)
	assert.Equal(t, enums.OrderStatusProcessing, got.Status)
	require.Len(t, got.Timeline, 3)
	assert.True(t, got.Timeline[0].Completed)
	assert.False(t, got.Timeline[1].Completed)
	require.Len(t, got.Items, 1)

	_, err = svc.Track(ctx, "SF-100200", "someone@else.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Track(ctx, "SF-999999", "buyer@example.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "no order matches that order number and email", pkgerrors.As(err).Message())
}

func TestTrackValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Track(context.Background(), "", "a@b.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.Track(context.Background(), "SF-1", "not-an-email")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateStatusShipsAndEmits(t *testing.T) {
	svc, conn := newTestService(t)
	order := seedOrder(t, conn, "SF-100300", "buyer@example.com")
	ctx := context.Background()
	actor := uuid.New()

	got, err := svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderNumber:    "SF-100300",
		Status:         enums.OrderStatusShipped,
		Carrier:        strPtr("UPS"),
		TrackingNumber: strPtr(" 1Z999 "),
		ActorUserID:    actor,
		ActorRole:      enums.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, got.Status)
	assert.Equal(t, "1Z999", *got.Tracking.TrackingNumber)
	assert.True(t, got.Timeline[1].Completed)
	require.NotNil(t, got.Timeline[1].Timestamp)

	var stored models.Order
	require.NoError(t, conn.Where("id = ?", order.ID).First(&stored).Error)
	assert.Equal(t, enums.OrderStatusShipped, stored.Status)
	require.NotNil(t, stored.ShippedAt)

	var events []models.OutboxEvent
	require.NoError(t, conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderStatusChanged, events[0].EventType)

	var env outbox.Envelope
	require.NoError(t, json.Unmarshal(events[0].Payload, &env))
	require.NotNil(t, env.Actor)
	assert.Equal(t, actor, env.Actor.UserID)
	var data payloads.OrderStatusChangedEvent
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, enums.OrderStatusProcessing, data.From)
	assert.Equal(t, enums.OrderStatusShipped, data.To)
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	svc, conn := newTestService(t)
	seedOrder(t, conn, "SF-100400", "buyer@example.com")
	ctx := context.Background()
	actor := uuid.New()

	_, err := svc.UpdateStatus(ctx, UpdateStatusInput{OrderNumber: "SF-100400", Status: enums.OrderStatusDelivered, ActorUserID: actor})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.UpdateStatus(ctx, UpdateStatusInput{OrderNumber: "SF-100400", Status: enums.OrderStatusShipped, ActorUserID: actor})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "tracking number is required")

	_, err = svc.UpdateStatus(ctx, UpdateStatusInput{OrderNumber: "SF-100400", Status: enums.OrderStatusCancelled, ActorUserID: actor})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, UpdateStatusInput{OrderNumber: "SF-100400", Status: enums.OrderStatusProcessing, ActorUserID: actor})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "cancelled is terminal")

	var count int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderNumber: "SF-0", Status: enums.OrderStatusCancelled, ActorUserID: uuid.New()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

type failingOutbox struct{}

func (failingOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	return errors.New("outbox unavailable")
}

func TestUpdateStatusRollsBackWhenEmitFails(t *testing.T) {
	conn := dbtest.Open(t)
	seedOrder(t, conn, "SF-100500", "buyer@example.com")
	svc, err := NewService(NewRepository(conn), db.Wrap(conn), failingOutbox{})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderNumber: "SF-100500", Status: enums.OrderStatusCancelled, ActorUserID: uuid.New()})
	require.Error(t, err)

	var stored models.Order
	require.NoError(t, conn.Where("order_number = ?", "SF-100500").First(&stored).Error)
	assert.Equal(t, enums.OrderStatusProcessing, stored.Status)
}

func TestBuildTimelineForCancelledAfterShipping(t *testing.T) {
	shipped := placedAt.Add(time.Hour)
	cancelled := placedAt.Add(2 * time.Hour)
	steps := BuildTimeline(&models.Order{
		Status:      enums.OrderStatusCancelled,
		PlacedAt:    placedAt,
		ShippedAt:   &shipped,
		CancelledAt: &cancelled,
	})
	assert.True(t, steps[0].Completed)
	assert.True(t, steps[1].Completed)
	assert.False(t, steps[2].Completed)
	assert.Nil(t, steps[2].Timestamp)
}

func TestBuildTimelineDelivered(t *testing.T) {
	shipped := placedAt.Add(time.Hour)
	delivered := placedAt.Add(72 * time.Hour)
	steps := BuildTimeline(&models.Order{
		Status:      enums.OrderStatusDelivered,
		PlacedAt:    placedAt,
		ShippedAt:   &shipped,
		DeliveredAt: &delivered,
	})
	for _, step := range steps {
		assert.True(t, step.Completed, step.Status)
		require.NotNil(t, step.Timestamp)
	}
	assert.Equal(t, "Delivered", steps[2].Label)
}

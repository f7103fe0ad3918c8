package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))

	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))
	assert.False(t, OrderStatusProcessing.CanTransitionTo("lost"))
}

func TestParseOrderStatusNormalizes(t *testing.T) {
	status, err := ParseOrderStatus("  Shipped ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("returned")
	assert.Error(t, err)
}

func TestParseWholesaleTier(t *testing.T) {
	tier, err := ParseWholesaleTier("GOLD")
	require.NoError(t, err)
	assert.Equal(t, WholesaleTierGold, tier)

	_, err = ParseWholesaleTier("platinum")
	assert.Error(t, err)
}

func TestParseWholesaleDecision(t *testing.T) {
	decision, err := ParseWholesaleDecision("Approve")
	require.NoError(t, err)
	assert.Equal(t, WholesaleDecisionApprove, decision)

	_, err = ParseWholesaleDecision("maybe")
	assert.Error(t, err)
}

func TestOutboxTypesValidate(t *testing.T) {
	assert.True(t, EventOrderStatusChanged.IsValid())
	assert.False(t, OutboxEventType("order_created").IsValid())

	agg, err := ParseOutboxAggregateType("repair_ticket")
	require.NoError(t, err)
	assert.Equal(t, AggregateRepairTicket, agg)
}

func TestServiceTypeAndRole(t *testing.T) {
	assert.True(t, ServiceTypeMailIn.IsValid())
	assert.False(t, ServiceType("drone").IsValid())

	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	_, err = ParseRole("root")
	assert.Error(t, err)
}

package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column on outbox_events.
type OutboxAggregateType string

const (
	AggregateOrder            OutboxAggregateType = "order"
	AggregateRepairTicket     OutboxAggregateType = "repair_ticket"
	AggregateWarrantyClaim    OutboxAggregateType = "warranty_claim"
	AggregateUser             OutboxAggregateType = "user"
	AggregateWholesaleAccount OutboxAggregateType = "wholesale_account"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateRepairTicket,
	AggregateWarrantyClaim,
	AggregateUser,
	AggregateWholesaleAccount,
}

// IsValid reports whether the value matches a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column on outbox_events.
type OutboxEventType string

const (
	EventOrderStatusChanged            OutboxEventType = "order_status_changed"
	EventRepairTicketCreated           OutboxEventType = "repair_ticket_created"
	EventWarrantyClaimSubmitted        OutboxEventType = "warranty_claim_submitted"
	EventPasswordResetRequested        OutboxEventType = "password_reset_requested"
	EventPasswordResetCompleted        OutboxEventType = "password_reset_completed"
	EventWholesaleApplicationSubmitted OutboxEventType = "wholesale_application_submitted"
	EventWholesaleApplicationDecided   OutboxEventType = "wholesale_application_decided"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderStatusChanged,
	EventRepairTicketCreated,
	EventWarrantyClaimSubmitted,
	EventPasswordResetRequested,
	EventPasswordResetCompleted,
	EventWholesaleApplicationSubmitted,
	EventWholesaleApplicationDecided,
}

// IsValid reports whether the value matches a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

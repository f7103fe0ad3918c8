// Package registry knows every event type the outbox may hold: its aggregate,
// topic and payload struct.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/config"
	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/enums"
	"github.com/repairdepot/storefront/pkg/outbox"
	"github.com/repairdepot/storefront/pkg/outbox/payloads"
)

type EventDescriptor struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	Topic         string
	// Mailer marks events the transactional mail worker consumes.
	Mailer         bool
	PayloadFactory func() interface{}
}

// ResolvedEvent is a row decoded against its descriptor.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.Envelope
	Payload    interface{}
}

type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError tells the publisher to park the row instead of retrying.
type NonRetryableError struct {
	Err error
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error { return e.Err }

func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

func describe[T any](event enums.OutboxEventType, aggregate enums.OutboxAggregateType, mailer bool) EventDescriptor {
	return EventDescriptor{
		EventType:      event,
		AggregateType:  aggregate,
		Mailer:         mailer,
		PayloadFactory: func() interface{} { return new(T) },
	}
}

// NewEventRegistry routes every storefront event to the domain topic.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.DomainTopic == "" {
		return nil, errors.New("domain topic is required")
	}
	descriptors := []EventDescriptor{
		describe[payloads.OrderStatusChangedEvent](enums.EventOrderStatusChanged, enums.AggregateOrder, true),
		describe[payloads.RepairTicketCreatedEvent](enums.EventRepairTicketCreated, enums.AggregateRepairTicket, true),
		describe[payloads.WarrantyClaimSubmittedEvent](enums.EventWarrantyClaimSubmitted, enums.AggregateWarrantyClaim, true),
		describe[payloads.PasswordResetRequestedEvent](enums.EventPasswordResetRequested, enums.AggregateUser, true),
		describe[payloads.PasswordResetCompletedEvent](enums.EventPasswordResetCompleted, enums.AggregateUser, true),
		describe[payloads.WholesaleApplicationSubmittedEvent](enums.EventWholesaleApplicationSubmitted, enums.AggregateWholesaleAccount, false),
		describe[payloads.WholesaleApplicationDecidedEvent](enums.EventWholesaleApplicationDecided, enums.AggregateWholesaleAccount, true),
	}
	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor, len(descriptors))}
	for _, desc := range descriptors {
		desc.Topic = cfg.DomainTopic
		reg.entries[desc.EventType] = desc
	}
	return reg, nil
}

// Types lists the registered event types in sorted order.
func (r *EventRegistry) Types() []enums.OutboxEventType {
	out := make([]enums.OutboxEventType, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resolve checks the row against its descriptor and decodes the payload.
// Every failure is non-retryable: the row will not decode any better later.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	reject := func(format string, args ...any) (*ResolvedEvent, error) {
		return nil, NewNonRetryableError(fmt.Errorf(format, args...))
	}

	desc, ok := r.entries[event.EventType]
	switch {
	case !ok:
		return reject("unsupported event type %s", event.EventType)
	case desc.AggregateType != event.AggregateType:
		return reject("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType)
	case event.AggregateID == uuid.Nil:
		return reject("missing aggregate_id")
	}

	envelope, err := outbox.DecodeEnvelope(event.Payload)
	if errors.Is(err, outbox.ErrEmptyData) {
		return reject("payload missing for %s", event.EventType)
	}
	if err != nil {
		return nil, NewNonRetryableError(err)
	}
	payload := desc.PayloadFactory()
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return reject("decode %s payload: %w", event.EventType, err)
	}
	return &ResolvedEvent{Descriptor: desc, Envelope: envelope, Payload: payload}, nil
}

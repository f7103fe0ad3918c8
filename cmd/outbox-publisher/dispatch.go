package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"gorm.io/gorm"

	"github.com/repairdepot/storefront/pkg/db/models"
	"github.com/repairdepot/storefront/pkg/outbox/registry"
)

const (
	reasonNonRetryable = "non_retryable"
	reasonMaxAttempts  = "max_attempts"
)

// dispatch publishes one row and records the result on it. Only a failure
// to write that result aborts the batch.
func (s *Service) dispatch(ctx context.Context, tx *gorm.DB, event models.OutboxEvent) error {
	fields := s.eventFields(event)

	resolved, err := s.registry.Resolve(event)
	if err != nil {
		return s.park(ctx, tx, event, reasonNonRetryable, err, fields)
	}
	fields["event_id"] = resolved.Envelope.EventID
	fields["occurred_at"] = resolved.Envelope.OccurredAt.Format(time.RFC3339Nano)
	fields["topic"] = resolved.Descriptor.Topic

	err = s.publish(ctx, event, resolved)
	if err == nil {
		if err := s.repo.MarkPublishedTx(tx, event.ID); err != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, err)
		}
		s.metrics.IncPublished(string(event.EventType))
		s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event published")
		return nil
	}

	s.metrics.IncFailed(string(event.EventType))
	var nonRetry registry.NonRetryableError
	if errors.As(err, &nonRetry) {
		return s.park(ctx, tx, event, reasonNonRetryable, err, fields)
	}

	next := event
	next.AttemptCount++
	fields["attempt_count"] = next.AttemptCount
	if !next.Pending(s.maxAttempts) {
		return s.park(ctx, tx, event, reasonMaxAttempts, fmt.Errorf("max publish attempts reached: %w", err), fields)
	}

	s.logg.Warn(s.logg.WithField(s.logg.WithFields(ctx, fields), "error", err.Error()), "outbox publish failed")
	if err := s.repo.MarkFailedTx(tx, event.ID, err); err != nil {
		return fmt.Errorf("mark failure %s: %w", event.ID, err)
	}
	return nil
}

// park takes a row out of rotation. It stays in outbox_events at the attempt
// ceiling for an operator to inspect or requeue.
func (s *Service) park(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, reason string, cause error, fields map[string]any) error {
	fields["error_reason"] = reason
	s.logg.Warn(s.logg.WithField(s.logg.WithFields(ctx, fields), "error", cause.Error()), "outbox event will not be retried")
	if err := s.repo.MarkTerminalTx(tx, event.ID, cause, s.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %s: %w", event.ID, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event models.OutboxEvent, resolved *registry.ResolvedEvent) error {
	topic := resolved.Descriptor.Topic
	pub := s.publishers(topic)
	if pub == nil {
		return registry.NewNonRetryableError(fmt.Errorf("publisher not configured for topic %s", topic))
	}

	ctx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	result := pub.Publish(ctx, messageFor(event, resolved))
	if result == nil {
		return registry.NewNonRetryableError(fmt.Errorf("%w for topic %s", errNilResult, topic))
	}
	_, err := result.Get(ctx)
	return err
}

// messageFor carries the stored envelope as the body. Subscribers filter on
// the attributes without decoding it; "mailer" routes to the email worker.
func messageFor(event models.OutboxEvent, resolved *registry.ResolvedEvent) *gcppubsub.Message {
	attrs := map[string]string{
		"event_id":       resolved.Envelope.EventID,
		"event_type":     string(event.EventType),
		"aggregate_type": string(event.AggregateType),
		"aggregate_id":   event.AggregateID.String(),
		"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
	}
	if resolved.Descriptor.Mailer {
		attrs["mailer"] = "true"
	}
	return &gcppubsub.Message{Data: event.Payload, Attributes: attrs}
}

func (s *Service) eventFields(event models.OutboxEvent) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"attempt_count":  event.AttemptCount,
		"batch_size":     s.batchSize,
	}
	if s.instanceID != "" {
		fields["instance"] = s.instanceID
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

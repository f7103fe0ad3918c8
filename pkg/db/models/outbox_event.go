package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/repairdepot/storefront/pkg/enums"
)

// OutboxEvent is one row of outbox_events. Rows are written inside the
// domain transaction and only ever updated by the publisher.
type OutboxEvent struct {
	ID            uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventType     enums.OutboxEventType     `gorm:"column:event_type;type:text;not null"`
	AggregateType enums.OutboxAggregateType `gorm:"column:aggregate_type;type:text;not null"`
	AggregateID   uuid.UUID                 `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       json.RawMessage           `gorm:"column:payload;type:jsonb;not null"`
	AttemptCount  int                       `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string                   `gorm:"column:last_error"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
	PublishedAt   *time.Time                `gorm:"column:published_at"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

// Pending reports whether the publisher may still pick the row up.
func (e OutboxEvent) Pending(maxAttempts int) bool {
	return e.PublishedAt == nil && e.AttemptCount < maxAttempts
}

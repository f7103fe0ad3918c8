package outbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CurrentVersion is the envelope version written by Emit.
const CurrentVersion = 1

// ErrEmptyData marks a row whose envelope decoded but carries no data.
var ErrEmptyData = errors.New("envelope data is empty")

// Actor is the user behind a domain event.
type Actor struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role,omitempty"`
}

// Envelope wraps every payload stored in outbox_events.payload. Consumers
// dedupe on EventID.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *Actor          `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

func newEnvelope(event DomainEvent) (Envelope, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event.EventType, err)
	}
	version := event.Version
	if version == 0 {
		version = CurrentVersion
	}
	return Envelope{
		Version:    version,
		EventID:    uuid.NewString(),
		OccurredAt: event.OccurredAt,
		Actor:      event.Actor,
		Data:       data,
	}, nil
}

// DecodeEnvelope parses a stored payload and rejects null or missing data.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Envelope{}, ErrEmptyData
	}
	return env, nil
}

package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is stamped on every envelope this package builds.
const SchemaVersion = 1

// Event is the envelope for every message the storefront publishes. Key
// selects the partition, so events about one aggregate stay ordered.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Key           string          `json:"key"`
	Source        string          `json:"source"`
	SchemaVersion int             `json:"schema_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SessionID     string          `json:"session_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// EventOption sets optional envelope fields.
type EventOption func(*Event)

// WithSession records the visitor session that caused the event.
func WithSession(id string) EventOption {
	return func(e *Event) { e.SessionID = id }
}

// WithCorrelation links the event to the request that produced it. Empty
// ids are ignored.
func WithCorrelation(id string) EventOption {
	return func(e *Event) {
		if id != "" {
			e.CorrelationID = id
		}
	}
}

// NewEvent encodes data into a new envelope. Ids are UUIDv7 so they sort by
// creation time.
func NewEvent(eventType, key, source string, data any, opts ...EventOption) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}

	e := &Event{
		ID:            id.String(),
		Type:          eventType,
		Key:           key,
		Source:        source,
		SchemaVersion: SchemaVersion,
		OccurredAt:    time.Now().UTC(),
		Data:          raw,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Decode unmarshals the payload into target.
func (e *Event) Decode(target any) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

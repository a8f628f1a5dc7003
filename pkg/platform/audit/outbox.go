package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is an audit event waiting to be relayed to the event bus.
type OutboxEntry struct {
	ID        uuid.UUID
	Key       string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxSource is implemented by stores that keep an outbox of unrelayed events.
type OutboxSource interface {
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// outboxPayload is the JSON structure published to Kafka.
type outboxPayload struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	GraphID   string `json:"graph_id,omitempty"`
	Count     int    `json:"count,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// MarshalPayload encodes the event for the outbox.
func MarshalPayload(event Event) ([]byte, error) {
	b, err := json.Marshal(outboxPayload{
		ID:        event.ID.String(),
		Category:  string(event.Category),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorID:   event.ActorID,
		Subject:   event.Subject,
		Action:    event.Action,
		GraphID:   event.GraphID,
		Count:     event.Count,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return b, nil
}

// UnmarshalPayload decodes an outbox payload back into an Event.
func UnmarshalPayload(b []byte) (Event, error) {
	var p outboxPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return Event{}, fmt.Errorf("unmarshal audit payload: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return Event{}, fmt.Errorf("parse audit timestamp: %w", err)
	}
	eventID, err := uuid.Parse(p.ID)
	if err != nil {
		return Event{}, fmt.Errorf("parse audit id: %w", err)
	}
	return Event{
		ID:        eventID,
		Category:  EventCategory(p.Category),
		Timestamp: ts,
		ActorID:   p.ActorID,
		Subject:   p.Subject,
		Action:    p.Action,
		GraphID:   p.GraphID,
		Count:     p.Count,
		Reason:    p.Reason,
		RequestID: p.RequestID,
	}, nil
}

// Prepare fills the id, category and timestamp of an event before it is stored.
func Prepare(event Event, now time.Time) Event {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Category = AuditEvent(event.Action).Category()
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}
	return event
}

// PartitionKey keys the event by graph when there is one so a graph's events
// stay ordered on the bus.
func PartitionKey(event Event) string {
	if event.GraphID != "" {
		return event.GraphID
	}
	return event.Subject
}

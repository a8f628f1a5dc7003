package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "clms/pkg/platform/audit"
)

type record struct {
	event       audit.Event
	payload     []byte
	publishedAt *time.Time
}

// InMemoryStore keeps events in append order and doubles as an outbox source
// so the relay can run against it in development.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	event = audit.Prepare(event, time.Now())
	payload, err := audit.MarshalPayload(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record{event: event, payload: payload})
	return nil
}

// ListRecent returns the most recent N events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]audit.Event, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, s.records[i].event)
	}
	return events, nil
}

// ListByAction returns every event with the given action, oldest first.
func (s *InMemoryStore) ListByAction(_ context.Context, action audit.AuditEvent) []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []audit.Event
	for _, r := range s.records {
		if r.event.Action == string(action) {
			events = append(events, r.event)
		}
	}
	return events
}

func (s *InMemoryStore) FetchUnpublished(_ context.Context, limit int) ([]audit.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []audit.OutboxEntry
	for _, r := range s.records {
		if r.publishedAt != nil {
			continue
		}
		entries = append(entries, audit.OutboxEntry{
			ID:        r.event.ID,
			Key:       audit.PartitionKey(r.event),
			EventType: r.event.Action,
			Payload:   r.payload,
			CreatedAt: r.event.Timestamp,
		})
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for i := range s.records {
		if _, ok := want[s.records[i].event.ID]; ok {
			published := at
			s.records[i].publishedAt = &published
		}
	}
	return nil
}


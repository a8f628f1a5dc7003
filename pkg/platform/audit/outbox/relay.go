// Package outbox relays audit events from the outbox table to the event bus.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clms/internal/platform/kafka/producer"
	audit "clms/pkg/platform/audit"
)

const (
	defaultBatchSize = 100
	defaultInterval  = time.Second
)

// Publisher is the bus side of the relay.
type Publisher interface {
	Publish(ctx context.Context, msgs ...producer.Message) error
}

// Relay polls the outbox and publishes unrelayed entries in creation order.
// Entries are marked published only after the bus acknowledged them, so
// delivery is at least once.
type Relay struct {
	source    audit.OutboxSource
	publisher Publisher
	topic     string
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the Relay.
type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) {
		r.now = now
	}
}

// New creates a relay publishing to topic.
func New(source audit.OutboxSource, publisher Publisher, topic string, opts ...Option) *Relay {
	r := &Relay{
		source:    source,
		publisher: publisher,
		topic:     topic,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays on every tick until ctx is cancelled. Failed batches are retried
// on the next tick.
func (r *Relay) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many entries were relayed.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	entries, err := r.source.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch outbox: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	msgs := make([]producer.Message, 0, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, producer.Message{
			Topic: r.topic,
			Key:   []byte(e.Key),
			Value: e.Payload,
			Headers: map[string]string{
				"event_id":   e.ID.String(),
				"event_type": e.EventType,
			},
		})
		ids = append(ids, e.ID)
	}

	if err := r.publisher.Publish(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("publish outbox batch: %w", err)
	}
	if err := r.source.MarkPublished(ctx, ids, r.now()); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}

	r.logger.DebugContext(ctx, "relayed audit events", "count", len(entries))
	return len(entries), nil
}

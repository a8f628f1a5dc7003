// Package compliance provides a fail-closed audit publisher.
//
// Events are written to the audit store (outbox-backed in production) inside
// the caller's transaction when one is present in ctx. If the write fails the
// caller receives an error and MUST fail its operation.
package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "clms/pkg/platform/audit"
	"clms/pkg/requestcontext"
)

// Publisher emits audit events with fail-closed semantics.
// All writes are synchronous - the caller blocks until persistence succeeds or fails.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a compliance publisher.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes an audit event to the store.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.Subject == "" && event.GraphID == "" {
		return fmt.Errorf("audit event %s requires Subject or GraphID", event.Action)
	}
	if event.ActorID == "" {
		event.ActorID = string(requestcontext.UserID(ctx))
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures(event.Action)
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit persistence failed",
				"action", event.Action,
				"subject", event.Subject,
				"graph_id", event.GraphID,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	p.metrics.ObservePersistDuration(time.Since(start))
	p.metrics.IncEventsEmitted(event.Action)
	return nil
}

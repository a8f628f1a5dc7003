package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"clms/internal/masterdata/metrics"
	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	audit "clms/pkg/platform/audit"
	"clms/pkg/requestcontext"
)

type EntryStore interface {
	Create(ctx context.Context, e *models.Entry) error
	CreateMany(ctx context.Context, entries []*models.Entry) error
	FindByID(ctx context.Context, entryID id.EntryID) (*models.Entry, error)
	List(ctx context.Context, filter models.EntryFilter) ([]*models.Entry, error)
	CountDrafts(ctx context.Context, graphID id.GraphID) (int, error)
	PublishDrafts(ctx context.Context, graphID id.GraphID, now time.Time) ([]id.EntryID, error)
	Execute(ctx context.Context, entryID id.EntryID, validate func(*models.Entry) error, mutate func(*models.Entry)) (*models.Entry, error)
}

type TypeStore interface {
	Create(ctx context.Context, t *models.Type) error
	FindByID(ctx context.Context, typeID id.TypeID) (*models.Type, error)
	List(ctx context.Context) ([]*models.Type, error)
}

type PublicationStore interface {
	Append(ctx context.Context, rec *models.PublicationRecord) error
	ListByGraph(ctx context.Context, graphID id.GraphID) ([]*models.PublicationRecord, error)
}

// GraphResolver reports NotFound when a knowledge graph id does not resolve.
type GraphResolver interface {
	Exists(ctx context.Context, graphID string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

var tracer = otel.Tracer("clms/masterdata")

// Service runs the draft/publish lifecycle of master-data entries.
type Service struct {
	entries        EntryStore
	types          TypeStore
	publications   PublicationStore
	graphs         GraphResolver
	tx             StoreTx
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx sets the unit-of-work boundary. Without it, stores that implement
// GraphSnapshotter are rolled back in memory.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func New(entries EntryStore, types TypeStore, publications PublicationStore, graphs GraphResolver, opts ...Option) *Service {
	s := &Service{
		entries:      entries,
		types:        types,
		publications: publications,
		graphs:       graphs,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		var participants []GraphSnapshotter
		for _, st := range []any{entries, publications} {
			if p, ok := st.(GraphSnapshotter); ok {
				participants = append(participants, p)
			}
		}
		s.tx = NewInMemoryTx(participants...)
	}
	return s
}

// emitCompliance publishes an event that must persist. Callers run it as
// the last step of a unit of work so a failure undoes the whole unit.
func (s *Service) emitCompliance(ctx context.Context, event audit.Event) error {
	if s.auditPublisher == nil {
		return nil
	}
	return s.auditPublisher.Emit(ctx, event)
}

func (s *Service) emitOperational(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"graph_id", event.GraphID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attrs ...any) {
	args := append([]any{
		"log_type", "audit",
		"event", string(event),
		"request_id", requestcontext.RequestID(ctx),
	}, attrs...)
	s.logger.InfoContext(ctx, string(event), args...)
}

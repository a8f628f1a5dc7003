package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clms/internal/knowledgegraph/flatten"
	"clms/internal/knowledgegraph/metrics"
	"clms/internal/knowledgegraph/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/sentinel"
	"clms/pkg/requestcontext"
)

// Store persists whole graph documents.
type Store interface {
	Save(ctx context.Context, g *models.Graph) error
	FindByID(ctx context.Context, graphID string) (*models.Graph, error)
	List(ctx context.Context) ([]*models.Graph, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns knowledge graphs and their flattened skill index.
type Service struct {
	store          Store
	index          *flatten.Index
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

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		index:  flatten.NewIndex(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warm rebuilds the index from every stored graph.
func (s *Service) Warm(ctx context.Context) error {
	graphs, err := s.store.List(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeBackend, "failed to load graphs")
	}
	for _, g := range graphs {
		s.rebuild(g)
	}
	return nil
}

// PutGraph validates and stores g, replacing any graph with the same id,
// then rebuilds its flattened projection.
func (s *Service) PutGraph(ctx context.Context, g *models.Graph) (*models.Summary, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if _, err := id.ParseGraphID(g.ID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid graph id")
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to save graph")
	}
	s.rebuild(g)
	s.metrics.IncrementGraphsReplaced()

	summary := &models.Summary{ID: g.ID, Name: g.Name, SkillCount: g.SkillCount()}
	s.emitAudit(ctx, audit.Event{
		Action:  string(audit.EventGraphReplaced),
		Subject: g.ID,
		GraphID: g.ID,
		Count:   summary.SkillCount,
	})
	return summary, nil
}

func (s *Service) GetGraph(ctx context.Context, graphID string) (*models.Graph, error) {
	g, err := s.store.FindByID(ctx, graphID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "knowledge graph not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to load graph")
	}
	return g, nil
}

func (s *Service) ListGraphs(ctx context.Context) ([]models.Summary, error) {
	graphs, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to list graphs")
	}
	out := make([]models.Summary, 0, len(graphs))
	for _, g := range graphs {
		out = append(out, models.Summary{ID: g.ID, Name: g.Name, SkillCount: g.SkillCount()})
	}
	return out, nil
}

// Exists reports NotFound when graphID does not resolve.
func (s *Service) Exists(ctx context.Context, graphID string) error {
	if _, ok := s.index.Skills(graphID); ok {
		return nil
	}
	_, err := s.GetGraph(ctx, graphID)
	return err
}

// FlattenGraph returns the graph's full skill projection.
func (s *Service) FlattenGraph(ctx context.Context, graphID string) ([]models.FlattenedSkill, error) {
	if err := s.ensureIndexed(ctx, graphID); err != nil {
		return nil, err
	}
	rows, _ := s.index.Skills(graphID)
	return rows, nil
}

// SearchSkills matches query against skill ids of one graph, returning at
// most limit results.
func (s *Service) SearchSkills(ctx context.Context, graphID, query string, limit int) ([]models.FlattenedSkill, error) {
	if err := s.ensureIndexed(ctx, graphID); err != nil {
		return nil, err
	}
	start := time.Now()
	rows := s.index.Search(graphID, query, limit)
	s.metrics.ObserveSearch(time.Since(start))
	return rows, nil
}

// ensureIndexed loads a graph written by another instance on first use.
func (s *Service) ensureIndexed(ctx context.Context, graphID string) error {
	if _, ok := s.index.Skills(graphID); ok {
		return nil
	}
	g, err := s.GetGraph(ctx, graphID)
	if err != nil {
		return err
	}
	s.rebuild(g)
	return nil
}

func (s *Service) rebuild(g *models.Graph) {
	start := time.Now()
	s.index.Rebuild(g)
	s.metrics.ObserveFlatten(time.Since(start))
	rows, _ := s.index.Skills(g.ID)
	s.metrics.SetIndexedSkills(g.ID, len(rows))
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
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

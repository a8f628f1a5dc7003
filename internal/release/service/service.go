package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"clms/internal/release/metrics"
	"clms/internal/release/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/sentinel"
	"clms/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, r *models.Release) error
	List(ctx context.Context) ([]*models.Release, error)
	Latest(ctx context.Context) (*models.Release, error)
	LatestPolicyUpdated(ctx context.Context) (*models.Release, error)
	Execute(ctx context.Context, releaseID id.ReleaseID, validate func(*models.Release) error, mutate func(*models.Release)) (*models.Release, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Policy version sources reported by CurrentPolicy.
const (
	SourceRelease = "release"
	SourceDefault = "default"
)

// Service records releases and binds the current terms-and-conditions
// version to them. It never touches consent records.
type Service struct {
	store          Store
	defaultVersion id.PolicyVersion
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

// New constructs a Service. defaultVersion applies until a release is
// flagged with a policy change.
func New(store Store, defaultVersion id.PolicyVersion, opts ...Option) *Service {
	s := &Service{
		store:          store,
		defaultVersion: defaultVersion,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRelease records a release dated now.
func (s *Service) CreateRelease(ctx context.Context, req models.CreateReleaseRequest) (*models.Release, error) {
	version, err := id.ParsePolicyVersion(req.Version)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	releaseType, err := models.ParseReleaseType(req.Type)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	r, err := models.NewRelease(id.ReleaseID(uuid.New()), version, releaseType, req.Notes, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.store.Create(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "release version already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to create release")
	}

	s.metrics.IncrementReleasesCreated(string(r.Type))
	s.logAudit(ctx, audit.EventReleaseCreated, "version", r.Version, "type", r.Type)
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			Action:  string(audit.EventReleaseCreated),
			Subject: r.Version.String(),
			Reason:  string(r.Type),
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to emit audit event",
				"action", audit.EventReleaseCreated,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
	return r, nil
}

// PublishPolicyChange flags the latest release as carrying a policy change,
// which makes its version the current policy version.
func (s *Service) PublishPolicyChange(ctx context.Context) (*models.Release, error) {
	latest, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no release exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to load latest release")
	}

	wasUpdated := latest.PolicyUpdated
	updated, err := s.setPolicyUpdated(ctx, latest.ID, true)
	if err != nil {
		return nil, err
	}
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			Action:  string(audit.EventPolicyChangePublished),
			Subject: updated.Version.String(),
		}); err != nil {
			if !wasUpdated {
				if _, rerr := s.setPolicyUpdated(ctx, latest.ID, false); rerr != nil {
					s.logger.ErrorContext(ctx, "failed to revert policy change",
						"version", updated.Version,
						"request_id", requestcontext.RequestID(ctx),
						"error", rerr,
					)
				}
			}
			return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to record policy change audit event")
		}
	}

	s.metrics.IncrementPolicyChanges()
	s.logAudit(ctx, audit.EventPolicyChangePublished, "version", updated.Version)
	return updated, nil
}

func (s *Service) setPolicyUpdated(ctx context.Context, releaseID id.ReleaseID, flag bool) (*models.Release, error) {
	r, err := s.store.Execute(ctx, releaseID,
		func(*models.Release) error { return nil },
		func(r *models.Release) {
			if flag {
				r.ApplyPolicyUpdate()
			} else {
				r.PolicyUpdated = false
			}
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "release not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to update release")
	}
	return r, nil
}

// CurrentPolicyVersion returns the version consent is checked against.
func (s *Service) CurrentPolicyVersion(ctx context.Context) (id.PolicyVersion, error) {
	resp, err := s.CurrentPolicy(ctx)
	if err != nil {
		return "", err
	}
	return resp.Version, nil
}

// CurrentPolicy is CurrentPolicyVersion plus where the version came from.
func (s *Service) CurrentPolicy(ctx context.Context) (*models.PolicyVersionResponse, error) {
	r, err := s.store.LatestPolicyUpdated(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &models.PolicyVersionResponse{Version: s.defaultVersion, Source: SourceDefault}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to resolve policy version")
	}
	return &models.PolicyVersionResponse{Version: r.Version, Source: SourceRelease}, nil
}

// ListReleases returns releases newest first.
func (s *Service) ListReleases(ctx context.Context) ([]*models.Release, error) {
	releases, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to list releases")
	}
	return releases, nil
}

func (s *Service) LatestRelease(ctx context.Context) (*models.Release, error) {
	r, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no release exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to load latest release")
	}
	return r, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attrs ...any) {
	args := append([]any{
		"log_type", "audit",
		"event", string(event),
		"request_id", requestcontext.RequestID(ctx),
	}, attrs...)
	s.logger.InfoContext(ctx, string(event), args...)
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"clms/internal/consent/metrics"
	"clms/internal/consent/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/sentinel"
	"clms/pkg/requestcontext"
)

type Store interface {
	Find(ctx context.Context, userID id.UserID) (*models.Record, error)
	Save(ctx context.Context, userID id.UserID, rec models.Record) error
	Delete(ctx context.Context, userID id.UserID) error
}

// PolicyVersionSource supplies the platform's current policy version.
type PolicyVersionSource interface {
	CurrentPolicyVersion(ctx context.Context) (id.PolicyVersion, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

var tracer = otel.Tracer("clms/consent")

// Service tracks which policy version each user last accepted. A user needs
// consent whenever that version differs from the current one.
type Service struct {
	store          Store
	policy         PolicyVersionSource
	locks          *userLocks
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

func New(store Store, policy PolicyVersionSource, opts ...Option) *Service {
	s := &Service{
		store:  store,
		policy: policy,
		locks:  &userLocks{timeout: defaultConsentTxTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NeedsConsent is true when the user has no record or accepted a version
// other than the current one.
func (s *Service) NeedsConsent(ctx context.Context, userID id.UserID) (bool, error) {
	status, err := s.Status(ctx, userID)
	if err != nil {
		return false, err
	}
	return status.NeedsConsent, nil
}

// Status returns the stored record alongside the current version.
func (s *Service) Status(ctx context.Context, userID id.UserID) (*models.Status, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	current, err := s.currentVersion(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	needs := rec.NeedsConsent(current)
	s.metrics.ObserveCheck(needs)
	return &models.Status{
		UserID:         userID,
		CurrentVersion: current,
		NeedsConsent:   needs,
		Record:         rec,
	}, nil
}

// AcceptTerms overwrites the user's record with the current version and the
// request time.
func (s *Service) AcceptTerms(ctx context.Context, userID id.UserID) (*models.Record, error) {
	ctx, span := tracer.Start(ctx, "consent.AcceptTerms")
	defer span.End()

	rec, err := s.acceptTerms(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "accept terms failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("policy.version", *rec.LastAcceptedVersion))
	return rec, nil
}

func (s *Service) acceptTerms(ctx context.Context, userID id.UserID) (*models.Record, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	current, err := s.currentVersion(ctx)
	if err != nil {
		return nil, err
	}

	var accepted models.Record
	err = s.locks.run(ctx, userID, func(ctx context.Context) error {
		previous, err := s.find(ctx, userID)
		if err != nil {
			return err
		}
		accepted = models.NewAcceptance(current, requestcontext.Now(ctx))
		if err := s.store.Save(ctx, userID, accepted); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to save consent")
		}
		if err := s.emitCompliance(ctx, audit.Event{
			Action:  string(audit.EventTermsAccepted),
			Subject: string(userID),
			Reason:  current.String(),
		}); err != nil {
			s.restore(ctx, userID, previous)
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to record consent audit event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementAccepted(current.String())
	s.logAudit(ctx, audit.EventTermsAccepted, "user_id", userID, "version", current)
	return &accepted, nil
}

// ResetConsent removes the user's record so the next check prompts again.
func (s *Service) ResetConsent(ctx context.Context, userID id.UserID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	err := s.locks.run(ctx, userID, func(ctx context.Context) error {
		previous, err := s.find(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.store.Delete(ctx, userID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to reset consent")
		}
		if err := s.emitCompliance(ctx, audit.Event{
			Action:  string(audit.EventConsentReset),
			Subject: string(userID),
		}); err != nil {
			s.restore(ctx, userID, previous)
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to record consent audit event")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementResets()
	s.logAudit(ctx, audit.EventConsentReset, "user_id", userID)
	return nil
}

func (s *Service) currentVersion(ctx context.Context) (id.PolicyVersion, error) {
	v, err := s.policy.CurrentPolicyVersion(ctx)
	if err != nil {
		if dErrors.CodeOf(err) != dErrors.CodeInternal {
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeBackend, "failed to resolve policy version")
	}
	return v, nil
}

// find returns nil without error when the user has no record.
func (s *Service) find(ctx context.Context, userID id.UserID) (*models.Record, error) {
	rec, err := s.store.Find(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to load consent")
	}
	return rec, nil
}

// restore puts back the record seen before a failed update.
func (s *Service) restore(ctx context.Context, userID id.UserID, previous *models.Record) {
	var err error
	if previous == nil {
		err = s.store.Delete(ctx, userID)
	} else {
		err = s.store.Save(ctx, userID, *previous)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to restore consent record",
			"user_id", userID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) emitCompliance(ctx context.Context, event audit.Event) error {
	if s.auditPublisher == nil {
		return nil
	}
	return s.auditPublisher.Emit(ctx, event)
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attrs ...any) {
	args := append([]any{
		"log_type", "audit",
		"event", string(event),
		"request_id", requestcontext.RequestID(ctx),
	}, attrs...)
	s.logger.InfoContext(ctx, string(event), args...)
}

func requireUser(userID id.UserID) error {
	if userID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authenticated user required")
	}
	return nil
}

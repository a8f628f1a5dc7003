package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/sentinel"
	"clms/pkg/requestcontext"
)

// CreateType registers an entry type. Names are unique ignoring case.
func (s *Service) CreateType(ctx context.Context, req models.CreateTypeRequest) (*models.Type, error) {
	t, err := models.NewType(id.TypeID(uuid.New()), req.Name, req.Description, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.types.Create(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "type name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to create type")
	}

	s.logAudit(ctx, audit.EventTypeCreated, "type_id", t.ID, "name", t.Name)
	s.emitOperational(ctx, audit.Event{
		Action:  string(audit.EventTypeCreated),
		Subject: t.ID.String(),
		Reason:  t.Name,
	})
	return t, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]*models.Type, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to list types")
	}
	return types, nil
}

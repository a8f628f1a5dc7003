package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	audit "clms/pkg/platform/audit"
	"clms/pkg/platform/sentinel"
	"clms/pkg/requestcontext"
)

// CreateDraftEntry adds one draft to a graph. Graph and type must resolve;
// a parent, when given, must be an active entry of the same graph.
func (s *Service) CreateDraftEntry(ctx context.Context, req models.CreateEntryRequest) (*models.Entry, error) {
	graphID, err := s.resolveGraph(ctx, req.GraphID)
	if err != nil {
		return nil, err
	}
	typeID, err := s.resolveType(ctx, req.TypeID)
	if err != nil {
		return nil, err
	}
	parentID, err := parseParent(req.ParentID)
	if err != nil {
		return nil, err
	}

	var created *models.Entry
	err = s.tx.RunInTx(ctx, graphID, func(txCtx context.Context) error {
		if err := s.requireParent(txCtx, graphID, parentID); err != nil {
			return err
		}
		e, err := s.newDraft(txCtx, graphID, typeID, req.Name, parentID, req.Metadata)
		if err != nil {
			return err
		}
		if err := s.entries.Create(txCtx, e); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to create draft entry")
		}
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementDraftsCreated("single", 1)
	s.logAudit(ctx, audit.EventEntryDrafted, "graph_id", graphID, "entry_id", created.ID)
	s.emitOperational(ctx, audit.Event{
		Action:  string(audit.EventEntryDrafted),
		Subject: created.ID.String(),
		GraphID: string(graphID),
		Count:   1,
	})
	return created, nil
}

// BulkCreateDraft inserts a batch of drafts all-or-nothing. Every item is
// validated before anything is written.
func (s *Service) BulkCreateDraft(ctx context.Context, graphIDRaw string, req models.BulkCreateRequest) ([]*models.Entry, error) {
	ctx, span := tracer.Start(ctx, "masterdata.BulkCreateDraft",
		trace.WithAttributes(attribute.Int("entries.count", len(req.Entries))),
	)
	defer span.End()

	entries, graphID, err := s.bulkCreate(ctx, graphIDRaw, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bulk create failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("graph.id", string(graphID)))

	s.metrics.IncrementDraftsCreated("bulk", len(entries))
	s.logAudit(ctx, audit.EventEntriesBulkDrafted, "graph_id", graphID, "count", len(entries))
	s.emitOperational(ctx, audit.Event{
		Action:  string(audit.EventEntriesBulkDrafted),
		Subject: string(graphID),
		GraphID: string(graphID),
		Count:   len(entries),
		Reason:  strings.TrimSpace(req.StateID),
	})
	return entries, nil
}

func (s *Service) bulkCreate(ctx context.Context, graphIDRaw string, req models.BulkCreateRequest) ([]*models.Entry, id.GraphID, error) {
	graphID, err := s.resolveGraph(ctx, graphIDRaw)
	if err != nil {
		return nil, "", err
	}
	if len(req.Entries) == 0 {
		return nil, "", dErrors.New(dErrors.CodeValidation, "entries must not be empty")
	}
	stateID := strings.TrimSpace(req.StateID)

	type item struct {
		typeID   id.TypeID
		parentID *id.EntryID
	}
	items := make([]item, len(req.Entries))
	resolved := make(map[string]id.TypeID)
	for i, in := range req.Entries {
		typeID, ok := resolved[in.TypeID]
		if !ok {
			typeID, err = s.resolveType(ctx, in.TypeID)
			if err != nil {
				return nil, "", itemError(i, err)
			}
			resolved[in.TypeID] = typeID
		}
		parentID, err := parseParent(in.ParentID)
		if err != nil {
			return nil, "", itemError(i, err)
		}
		if in.Name.Normalize().Default() == "" {
			return nil, "", itemError(i, dErrors.New(dErrors.CodeValidation, "name must include an English (en) value"))
		}
		items[i] = item{typeID: typeID, parentID: parentID}
	}

	var created []*models.Entry
	err = s.tx.RunInTx(ctx, graphID, func(txCtx context.Context) error {
		batch := make([]*models.Entry, 0, len(items))
		for i, it := range items {
			if err := s.requireParent(txCtx, graphID, it.parentID); err != nil {
				return itemError(i, err)
			}
			in := req.Entries[i]
			e, err := s.newDraft(txCtx, graphID, it.typeID, in.Name, it.parentID, in.Metadata)
			if err != nil {
				return itemError(i, err)
			}
			e.StateID = stateID
			batch = append(batch, e)
		}
		if err := s.entries.CreateMany(txCtx, batch); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to create draft entries")
		}
		created = batch
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return created, graphID, nil
}

// ListDraftEntries returns the graph's active drafts, newest first. An empty
// graph id yields an empty list.
func (s *Service) ListDraftEntries(ctx context.Context, graphID, typeID string) ([]*models.Entry, error) {
	return s.listEntries(ctx, graphID, typeID, models.StatusDraft)
}

// ListLiveEntries returns the graph's active live entries, newest first.
func (s *Service) ListLiveEntries(ctx context.Context, graphID, typeID string) ([]*models.Entry, error) {
	return s.listEntries(ctx, graphID, typeID, models.StatusLive)
}

func (s *Service) listEntries(ctx context.Context, graphIDRaw, typeIDRaw string, status models.EntryStatus) ([]*models.Entry, error) {
	if strings.TrimSpace(graphIDRaw) == "" {
		return []*models.Entry{}, nil
	}
	graphID, err := id.ParseGraphID(graphIDRaw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid graph id")
	}
	filter := models.EntryFilter{GraphID: graphID, Status: status}
	if typeIDRaw = strings.TrimSpace(typeIDRaw); typeIDRaw != "" {
		typeID, err := id.ParseTypeID(typeIDRaw)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid type id")
		}
		filter.TypeID = &typeID
	}
	entries, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to list entries")
	}
	return entries, nil
}

// Publish moves every active draft of a graph live and records one
// publication, as a single unit of work. With no drafts nothing is written.
func (s *Service) Publish(ctx context.Context, graphIDRaw string) (*models.PublishResult, error) {
	ctx, span := tracer.Start(ctx, "masterdata.Publish")
	defer span.End()

	start := time.Now()
	result, err := s.publish(ctx, graphIDRaw)
	if err != nil {
		outcome := "failed"
		if dErrors.HasCode(err, dErrors.CodeNothingToPublish) {
			outcome = "nothing_to_publish"
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, "publish failed")
		}
		s.metrics.ObservePublish(outcome, 0, time.Since(start))
		return nil, err
	}
	span.SetAttributes(
		attribute.String("graph.id", string(result.GraphID)),
		attribute.Int("publish.count", result.Count),
	)
	s.metrics.ObservePublish("published", result.Count, time.Since(start))
	s.logAudit(ctx, audit.EventEntriesPublished,
		"graph_id", result.GraphID,
		"count", result.Count,
		"publication_id", result.PublicationID,
	)
	return result, nil
}

func (s *Service) publish(ctx context.Context, graphIDRaw string) (*models.PublishResult, error) {
	graphID, err := requireGraphID(graphIDRaw)
	if err != nil {
		return nil, err
	}

	var result *models.PublishResult
	err = s.tx.RunInTx(ctx, graphID, func(txCtx context.Context) error {
		pending, err := s.entries.CountDrafts(txCtx, graphID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to count drafts")
		}
		if pending == 0 {
			return dErrors.New(dErrors.CodeNothingToPublish, "no draft entries to publish")
		}

		now := requestcontext.Now(txCtx)
		published, err := s.entries.PublishDrafts(txCtx, graphID, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to publish drafts")
		}
		if len(published) == 0 {
			return dErrors.New(dErrors.CodeNothingToPublish, "no draft entries to publish")
		}

		rec := &models.PublicationRecord{
			ID:           id.PublicationID(uuid.New()),
			GraphID:      graphID,
			Actor:        actorOf(txCtx),
			RecordsCount: len(published),
			EntryIDs:     published,
			CreatedAt:    now,
		}
		if err := s.publications.Append(txCtx, rec); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to record publication")
		}
		if err := s.emitCompliance(txCtx, audit.Event{
			Action:  string(audit.EventEntriesPublished),
			Subject: string(graphID),
			GraphID: string(graphID),
			Count:   rec.RecordsCount,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to record publish audit event")
		}

		result = &models.PublishResult{
			GraphID:       graphID,
			Count:         rec.RecordsCount,
			PublicationID: rec.ID,
			PublishedAt:   now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SoftDeleteEntry deactivates an entry from either status. Unknown and
// already deleted entries are NotFound.
func (s *Service) SoftDeleteEntry(ctx context.Context, entryIDRaw string) (*models.Entry, error) {
	entryID, err := id.ParseEntryID(strings.TrimSpace(entryIDRaw))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid entry id")
	}
	existing, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, wrapEntryErr(err)
	}

	var deleted *models.Entry
	err = s.tx.RunInTx(ctx, existing.GraphID, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		e, err := s.entries.Execute(txCtx, entryID,
			func(e *models.Entry) error {
				if err := e.CanSoftDelete(); err != nil {
					if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
						return dErrors.New(dErrors.CodeNotFound, "entry not found")
					}
					return err
				}
				return nil
			},
			func(e *models.Entry) {
				e.ApplySoftDelete(now)
			},
		)
		if err != nil {
			return wrapEntryErr(err)
		}
		if err := s.emitCompliance(txCtx, audit.Event{
			Action:  string(audit.EventEntrySoftDeleted),
			Subject: e.ID.String(),
			GraphID: string(e.GraphID),
			Count:   1,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBackend, "failed to record delete audit event")
		}
		deleted = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementEntriesDeleted()
	s.logAudit(ctx, audit.EventEntrySoftDeleted, "graph_id", deleted.GraphID, "entry_id", deleted.ID)
	return deleted, nil
}

// ListPublications returns a graph's publication records, newest first.
func (s *Service) ListPublications(ctx context.Context, graphIDRaw string) ([]*models.PublicationRecord, error) {
	graphID, err := requireGraphID(graphIDRaw)
	if err != nil {
		return nil, err
	}
	records, err := s.publications.ListByGraph(ctx, graphID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBackend, "failed to list publications")
	}
	return records, nil
}

func (s *Service) newDraft(ctx context.Context, graphID id.GraphID, typeID id.TypeID, name models.LocalizedName, parentID *id.EntryID, metadata map[string]any) (*models.Entry, error) {
	e, err := models.NewDraftEntry(id.EntryID(uuid.New()), typeID, graphID, name, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	e.ParentID = parentID
	for k, v := range metadata {
		e.Metadata[k] = v
	}
	return e, nil
}

func requireGraphID(raw string) (id.GraphID, error) {
	if strings.TrimSpace(raw) == "" {
		return "", dErrors.New(dErrors.CodeValidation, "graph id is required")
	}
	graphID, err := id.ParseGraphID(raw)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, "invalid graph id")
	}
	return graphID, nil
}

// resolveGraph validates the id and checks the graph exists. An unknown
// graph is a validation failure of the request, not a missing resource.
func (s *Service) resolveGraph(ctx context.Context, raw string) (id.GraphID, error) {
	graphID, err := requireGraphID(raw)
	if err != nil {
		return "", err
	}
	if s.graphs == nil {
		return graphID, nil
	}
	if err := s.graphs.Exists(ctx, string(graphID)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return "", dErrors.New(dErrors.CodeValidation, "graph does not exist")
		}
		return "", err
	}
	return graphID, nil
}

func (s *Service) resolveType(ctx context.Context, raw string) (id.TypeID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return id.TypeID{}, dErrors.New(dErrors.CodeValidation, "type id is required")
	}
	typeID, err := id.ParseTypeID(raw)
	if err != nil {
		return id.TypeID{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid type id")
	}
	if _, err := s.types.FindByID(ctx, typeID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.TypeID{}, dErrors.New(dErrors.CodeValidation, "type does not exist")
		}
		return id.TypeID{}, dErrors.Wrap(err, dErrors.CodeBackend, "failed to load type")
	}
	return typeID, nil
}

func parseParent(raw string) (*id.EntryID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parentID, err := id.ParseEntryID(raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid parent id")
	}
	return &parentID, nil
}

func (s *Service) requireParent(ctx context.Context, graphID id.GraphID, parentID *id.EntryID) error {
	if parentID == nil {
		return nil
	}
	parent, err := s.entries.FindByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "parent entry not found")
		}
		return dErrors.Wrap(err, dErrors.CodeBackend, "failed to load parent entry")
	}
	if !parent.Active || parent.GraphID != graphID {
		return dErrors.New(dErrors.CodeNotFound, "parent entry not found")
	}
	return nil
}

func wrapEntryErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "entry not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeBackend, "failed to load entry")
}

// itemError prefixes the message with the batch position, keeping the code.
func itemError(i int, err error) error {
	return dErrors.Wrap(err, dErrors.CodeOf(err), fmt.Sprintf("entries[%d]: %s", i, dErrors.MessageOf(err)))
}

func actorOf(ctx context.Context) string {
	if userID := requestcontext.UserID(ctx); userID != "" {
		return string(userID)
	}
	return "system"
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clms/internal/masterdata/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	"clms/pkg/platform/httputil"
	authmw "clms/pkg/platform/middleware/auth"
	request "clms/pkg/platform/middleware/request"
)

// Service defines the master-data operations the HTTP layer needs.
type Service interface {
	CreateType(ctx context.Context, req models.CreateTypeRequest) (*models.Type, error)
	ListTypes(ctx context.Context) ([]*models.Type, error)
	CreateDraftEntry(ctx context.Context, req models.CreateEntryRequest) (*models.Entry, error)
	BulkCreateDraft(ctx context.Context, graphID string, req models.BulkCreateRequest) ([]*models.Entry, error)
	ListDraftEntries(ctx context.Context, graphID, typeID string) ([]*models.Entry, error)
	ListLiveEntries(ctx context.Context, graphID, typeID string) ([]*models.Entry, error)
	Publish(ctx context.Context, graphID string) (*models.PublishResult, error)
	SoftDeleteEntry(ctx context.Context, entryID string) (*models.Entry, error)
	ListPublications(ctx context.Context, graphID string) ([]*models.PublicationRecord, error)
}

// Handler serves the master-data draft/publish workflow.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	write := authmw.RequireCapability(id.CapabilityMasterDataWrite, h.logger)
	publish := authmw.RequireCapability(id.CapabilityMasterDataPublish, h.logger)

	r.Get("/admin/master-data/types", h.HandleListTypes)
	r.With(write).Post("/admin/master-data/types", h.HandleCreateType)

	r.Get("/admin/graphs/{graphID}/entries", h.HandleListEntries)
	r.With(write).Post("/admin/graphs/{graphID}/entries", h.HandleCreateEntry)
	r.With(write).Post("/admin/graphs/{graphID}/entries/bulk", h.HandleBulkCreate)
	r.With(publish).Post("/admin/graphs/{graphID}/publish", h.HandlePublish)
	r.Get("/admin/graphs/{graphID}/publications", h.HandleListPublications)

	r.With(write).Delete("/admin/entries/{entryID}", h.HandleDeleteEntry)
}

type entriesResponse struct {
	GraphID string          `json:"graph_id"`
	Status  string          `json:"status"`
	Entries []*models.Entry `json:"entries"`
}

type bulkCreateResponse struct {
	Count   int             `json:"count"`
	Entries []*models.Entry `json:"entries"`
}

type typesResponse struct {
	Types []*models.Type `json:"types"`
}

type publicationsResponse struct {
	GraphID      string                      `json:"graph_id"`
	Publications []*models.PublicationRecord `json:"publications"`
}

func (h *Handler) HandleCreateType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateTypeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	t, err := h.service.CreateType(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) HandleListTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	types, err := h.service.ListTypes(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, typesResponse{Types: types})
}

// HandleCreateEntry creates one draft in the graph named by the path.
func (h *Handler) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateEntryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	graphID := chi.URLParam(r, "graphID")
	if req.GraphID != "" && req.GraphID != graphID {
		h.writeError(ctx, w, dErrors.New(dErrors.CodeValidation, "graph id in body does not match path"))
		return
	}
	req.GraphID = graphID

	e, err := h.service.CreateDraftEntry(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) HandleBulkCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.BulkCreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	entries, err := h.service.BulkCreateDraft(ctx, chi.URLParam(r, "graphID"), req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, bulkCreateResponse{Count: len(entries), Entries: entries})
}

// HandleListEntries lists drafts by default; ?status=live lists published
// entries and ?type= narrows to one entry type.
func (h *Handler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	graphID := chi.URLParam(r, "graphID")
	typeID := r.URL.Query().Get("type")

	status := models.EntryStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.StatusDraft
	}

	var (
		entries []*models.Entry
		err     error
	)
	switch status {
	case models.StatusDraft:
		entries, err = h.service.ListDraftEntries(ctx, graphID, typeID)
	case models.StatusLive:
		entries, err = h.service.ListLiveEntries(ctx, graphID, typeID)
	default:
		err = dErrors.New(dErrors.CodeValidation, "status must be draft or live")
	}
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entriesResponse{GraphID: graphID, Status: string(status), Entries: entries})
}

func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.service.Publish(ctx, chi.URLParam(r, "graphID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleListPublications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	graphID := chi.URLParam(r, "graphID")
	records, err := h.service.ListPublications(ctx, graphID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, publicationsResponse{GraphID: graphID, Publications: records})
}

func (h *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := h.service.SoftDeleteEntry(ctx, chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if status := dErrors.ToHTTPStatus(dErrors.CodeOf(err)); status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "master data request failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "master data request rejected",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

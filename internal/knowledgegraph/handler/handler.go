package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clms/internal/knowledgegraph/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	"clms/pkg/platform/httputil"
	authmw "clms/pkg/platform/middleware/auth"
	request "clms/pkg/platform/middleware/request"
)

// Service defines the knowledge graph operations the HTTP layer needs.
type Service interface {
	PutGraph(ctx context.Context, g *models.Graph) (*models.Summary, error)
	GetGraph(ctx context.Context, graphID string) (*models.Graph, error)
	ListGraphs(ctx context.Context) ([]models.Summary, error)
	SearchSkills(ctx context.Context, graphID, query string, limit int) ([]models.FlattenedSkill, error)
	FlattenGraph(ctx context.Context, graphID string) ([]models.FlattenedSkill, error)
}

// Handler serves knowledge graph authoring and skill search.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/graphs", h.HandleListGraphs)
	r.Get("/admin/graphs/{graphID}", h.HandleGetGraph)
	r.Get("/admin/graphs/{graphID}/skills", h.HandleSearchSkills)
	r.Get("/admin/graphs/{graphID}/flattened", h.HandleFlattenGraph)
	r.With(authmw.RequireCapability(id.CapabilityGraphsWrite, h.logger)).
		Put("/admin/graphs/{graphID}", h.HandlePutGraph)
}

type skillsResponse struct {
	GraphID string                  `json:"graph_id"`
	Query   string                  `json:"query,omitempty"`
	Skills  []models.FlattenedSkill `json:"skills"`
}

type graphListResponse struct {
	Graphs []models.Summary `json:"graphs"`
}

// HandlePutGraph replaces the graph at the path id with the request body.
func (h *Handler) HandlePutGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	graphID := chi.URLParam(r, "graphID")

	var g models.Graph
	if err := httputil.DecodeJSON(r, &g); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	if g.ID == "" {
		g.ID = graphID
	}
	if g.ID != graphID {
		h.writeError(ctx, w, dErrors.New(dErrors.CodeValidation, "graph id in body does not match path"))
		return
	}

	summary, err := h.service.PutGraph(ctx, &g)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) HandleGetGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	g, err := h.service.GetGraph(ctx, chi.URLParam(r, "graphID"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) HandleListGraphs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	graphs, err := h.service.ListGraphs(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, graphListResponse{Graphs: graphs})
}

// HandleSearchSkills serves the skill selector autocomplete: ?q= matches skill
// ids, ?limit= caps results (at most 20).
func (h *Handler) HandleSearchSkills(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	graphID := chi.URLParam(r, "graphID")
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(ctx, w, dErrors.New(dErrors.CodeValidation, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	skills, err := h.service.SearchSkills(ctx, graphID, query, limit)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, skillsResponse{GraphID: graphID, Query: query, Skills: skills})
}

func (h *Handler) HandleFlattenGraph(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	graphID := chi.URLParam(r, "graphID")
	skills, err := h.service.FlattenGraph(ctx, graphID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, skillsResponse{GraphID: graphID, Skills: skills})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if status := dErrors.ToHTTPStatus(dErrors.CodeOf(err)); status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "knowledge graph request failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "knowledge graph request rejected",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clms/internal/release/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	"clms/pkg/platform/httputil"
	authmw "clms/pkg/platform/middleware/auth"
	request "clms/pkg/platform/middleware/request"
)

type Service interface {
	CreateRelease(ctx context.Context, req models.CreateReleaseRequest) (*models.Release, error)
	ListReleases(ctx context.Context) ([]*models.Release, error)
	LatestRelease(ctx context.Context) (*models.Release, error)
	PublishPolicyChange(ctx context.Context) (*models.Release, error)
	CurrentPolicy(ctx context.Context) (*models.PolicyVersionResponse, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the admin routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	manage := authmw.RequireCapability(id.CapabilityReleasesManage, h.logger)

	r.Get("/admin/releases", h.HandleListReleases)
	r.Get("/admin/releases/latest", h.HandleLatestRelease)
	r.With(manage).Post("/admin/releases", h.HandleCreateRelease)
	r.With(manage).Post("/admin/releases/policy-change", h.HandlePublishPolicyChange)
}

// RegisterPublic mounts routes that need no session.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/policy/version", h.HandleCurrentPolicy)
}

type releasesResponse struct {
	Releases []*models.Release `json:"releases"`
}

func (h *Handler) HandleCreateRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateReleaseRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	release, err := h.service.CreateRelease(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, release)
}

func (h *Handler) HandleListReleases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	releases, err := h.service.ListReleases(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, releasesResponse{Releases: releases})
}

func (h *Handler) HandleLatestRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	release, err := h.service.LatestRelease(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, release)
}

// HandlePublishPolicyChange marks the latest release as the current
// terms-and-conditions version.
func (h *Handler) HandlePublishPolicyChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	release, err := h.service.PublishPolicyChange(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, release)
}

func (h *Handler) HandleCurrentPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	policy, err := h.service.CurrentPolicy(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, policy)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if status := dErrors.ToHTTPStatus(dErrors.CodeOf(err)); status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "release request failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "release request rejected",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

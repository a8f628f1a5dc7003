package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clms/internal/consent/models"
	id "clms/pkg/domain"
	dErrors "clms/pkg/domain-errors"
	"clms/pkg/platform/httputil"
	request "clms/pkg/platform/middleware/request"
	"clms/pkg/requestcontext"
)

// Service defines the interface for consent operations.
type Service interface {
	Status(ctx context.Context, userID id.UserID) (*models.Status, error)
	AcceptTerms(ctx context.Context, userID id.UserID) (*models.Record, error)
	ResetConsent(ctx context.Context, userID id.UserID) error
}

// Handler serves the signed-in user's terms-and-conditions consent.
type Handler struct {
	logger  *slog.Logger
	consent Service
}

func New(consent Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, consent: consent}
}

// Register mounts the routes on an authenticated router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/consent", h.handleGetConsent)
	r.Post("/me/consent/accept", h.handleAcceptTerms)
	r.Post("/me/consent/reset", h.handleResetConsent)
}

func (h *Handler) handleGetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}
	status, err := h.consent.Status(ctx, userID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// handleAcceptTerms records acceptance of the current policy version and
// returns the refreshed status.
func (h *Handler) handleAcceptTerms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}
	if _, err := h.consent.AcceptTerms(ctx, userID); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	status, err := h.consent.Status(ctx, userID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleResetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(ctx, w)
	if !ok {
		return
	}
	if err := h.consent.ResetConsent(ctx, userID); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requireUser(ctx context.Context, w http.ResponseWriter) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		// RequireAuth always sets the user; reaching here means a wiring bug.
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return userID, true
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if status := dErrors.ToHTTPStatus(dErrors.CodeOf(err)); status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "consent request failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.WarnContext(ctx, "consent request rejected",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

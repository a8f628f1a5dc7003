// Package httpapi assembles the service's HTTP surface.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	consenthandler "clms/internal/consent/handler"
	graphhandler "clms/internal/knowledgegraph/handler"
	mdhandler "clms/internal/masterdata/handler"
	"clms/internal/platform/metrics"
	releasehandler "clms/internal/release/handler"
	"clms/pkg/platform/httputil"
	authmw "clms/pkg/platform/middleware/auth"
	request "clms/pkg/platform/middleware/request"
	"clms/pkg/platform/middleware/requesttime"
	"clms/pkg/platform/middleware/tracing"
)

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the handlers and cross-cutting pieces the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Validator    authmw.JWTValidator
	Graphs       *graphhandler.Handler
	MasterData   *mdhandler.Handler
	Consent      *consenthandler.Handler
	Releases     *releasehandler.Handler
	HealthChecks map[string]HealthCheck
}

// NewRouter wires every route. Everything except health, metrics and the
// current policy version requires a bearer token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(tracing.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Recovery(d.Logger))
	r.Use(d.Metrics.Middleware)

	r.Get("/healthz", healthHandler(d.HealthChecks))
	r.Handle("/metrics", metrics.Handler())
	d.Releases.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(d.Validator, d.Logger))
		d.Graphs.Register(r)
		d.MasterData.Register(r)
		d.Consent.Register(r)
		d.Releases.Register(r)
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

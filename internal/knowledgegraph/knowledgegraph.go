// Package knowledgegraph owns curriculum graphs and the flattened skill
// projection used by the skill selector.
package knowledgegraph

import (
	"log/slog"

	"clms/internal/knowledgegraph/handler"
	"clms/internal/knowledgegraph/service"
)

// Service exposes graph storage and skill search.
type Service = service.Service

// Handler wires HTTP endpoints to the graph service.
type Handler = handler.Handler

// NewService constructs the graph service.
func NewService(store service.Store, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

// NewHandler constructs an HTTP handler for graph routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

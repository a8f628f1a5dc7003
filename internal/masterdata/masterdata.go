// Package masterdata manages taxonomy entries scoped to knowledge graphs and
// their draft to live publication.
package masterdata

import (
	"log/slog"

	"clms/internal/masterdata/handler"
	"clms/internal/masterdata/service"
)

// Service runs the draft/publish lifecycle.
type Service = service.Service

type Handler = handler.Handler

func NewService(entries service.EntryStore, types service.TypeStore, publications service.PublicationStore, graphs service.GraphResolver, opts ...service.Option) *Service {
	return service.New(entries, types, publications, graphs, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

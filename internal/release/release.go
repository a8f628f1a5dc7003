// Package release records product releases and decides which release
// carries the current terms-and-conditions version.
package release

import (
	"log/slog"

	"clms/internal/release/handler"
	"clms/internal/release/service"
	id "clms/pkg/domain"
)

type Service = service.Service

type Handler = handler.Handler

func NewService(store service.Store, defaultVersion id.PolicyVersion, opts ...service.Option) *Service {
	return service.New(store, defaultVersion, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

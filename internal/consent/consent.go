// Package consent tracks which terms-and-conditions version each user last
// accepted.
package consent

import (
	"log/slog"

	"clms/internal/consent/handler"
	"clms/internal/consent/service"
	"clms/internal/consent/store"
)

type Service = service.Service

type Handler = handler.Handler

// NewService constructs the consent service over a KV backend.
func NewService(kv store.KV, policy service.PolicyVersionSource, opts ...service.Option) *Service {
	return service.New(store.New(kv), policy, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

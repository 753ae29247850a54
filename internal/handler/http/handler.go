package http

import (
	"context"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/service"
)

// HealthChecker reports whether the intake server's backing storage is
// reachable. *store.Storages implements it.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	services *service.Services
	health   HealthChecker

	// hashKey enables the HashSHA256 body check when non-empty.
	hashKey string

	logger *logger.Logger
}

func NewHandler(services *service.Services, health HealthChecker, hashKey string, logger *logger.Logger) *Handler {
	logger.Info().Bool("integrity_check", hashKey != "").Msg("http handler created")
	return &Handler{
		services: services,
		health:   health,
		hashKey:  hashKey,
		logger:   logger,
	}
}

package service

import (
	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/store"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
)

// Services groups the intake server's services.
type Services struct {
	AuthService         AuthService
	InterventionService InterventionService
	AppInfoService      AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	interventions := NewInterventionLoggingWrapper(logger).
		Wrap(NewInterventionService(storages.InterventionRepository, utils.SystemClock{}, logger))

	return &Services{
		AuthService:         NewAuthService(cfg.App, logger),
		InterventionService: interventions,
		AppInfoService:      appInfo,
	}, nil
}

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetzen/fleetzen/internal/adapter"
	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/service"
	"github.com/fleetzen/fleetzen/internal/store"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/internal/workers"
	"github.com/fleetzen/fleetzen/models"
)

type App struct {
	services *service.ClientServices
	workers  *workers.Workers

	// agent is decoded from the session token; empty when signed out.
	agent    models.Agent
	hasAgent bool

	logger *logger.Logger
}

// NewApp opens the local store and builds the services and workers described
// by cfg. The caller must Close the returned app.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	services := service.NewClientServices(storages, serverAdapter, cfg, utils.SystemClock{}, logger)

	app := &App{
		services: services,
		workers:  workers.NewClientWorkers(services, logger),
		logger:   logger,
	}
	app.setSession(cfg.App.SessionToken)

	return app, nil
}

// setSession decodes the agent identity from token. A malformed token only
// leaves drafts unstamped; the intake server rejects it on submission.
func (a *App) setSession(token string) {
	if token == "" {
		return
	}

	agent, err := utils.ParseAgentUnverified(token)
	if err != nil {
		a.logger.Warn().Err(err).Str("func", "App.setSession").Msg("session token carries no agent identity")
		return
	}
	a.agent, a.hasAgent = agent, true
}

func (a *App) Services() *service.ClientServices {
	return a.services
}

func (a *App) WithAgent(ctx context.Context) context.Context {
	if !a.hasAgent {
		return ctx
	}
	return utils.WithAgent(ctx, a.agent)
}

// Run runs the connectivity monitor, the sync job and the reaper until ctx
// is cancelled. Submissions made by the sync job carry the session agent.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Str("agent_id", a.agent.ID).Msg("agent daemon started")

	err := a.workers.Run(a.WithAgent(ctx))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info().Msg("agent daemon stopped")
	return nil
}

func (a *App) Close() error {
	return a.services.DraftStore.Close()
}

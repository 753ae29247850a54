package service

import (
	"github.com/fleetzen/fleetzen/internal/adapter"
	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/store"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/internal/validators"
)

// ClientServices groups everything the agent CLI and daemon need.
type ClientServices struct {
	DraftStore     DraftStore
	PhotoProcessor PhotoProcessor
	SyncService    DraftSyncService
	Connectivity   ConnectivityMonitor
	SyncJob        ClientJob
	ReaperJob      ClientJob

	// Validator checks payloads entered on the CLI against the
	// per-type schemas before they reach the draft store.
	Validator validators.Validator
}

func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.ClientConfig, clock utils.Clock, logger *logger.Logger) *ClientServices {
	drafts := NewDraftStore(storages, cfg.Drafts, clock, logger)
	validator := validators.NewInterventionValidator(cfg.Drafts.MaxPhotos)
	syncSvc := NewDraftSyncService(drafts, serverAdapter, validator, cfg.Adapter, logger)
	monitor := NewConnectivityMonitor(serverAdapter, cfg.Workers.ConnectivityInterval, logger)

	return &ClientServices{
		DraftStore:     drafts,
		PhotoProcessor: NewPhotoProcessor(cfg.Drafts, logger),
		SyncService:    syncSvc,
		Connectivity:   monitor,
		SyncJob:        NewDraftSyncJob(syncSvc, monitor, cfg.Workers.SyncInterval, logger),
		ReaperJob:      NewDraftReaperJob(drafts, cfg.Workers.ReapInterval, logger),
		Validator:      validator,
	}
}

package service

import (
	"context"
	"time"

	"github.com/fleetzen/fleetzen/internal/logger"
)

const (
	defaultSyncInterval = 5 * time.Minute
	defaultReapInterval = time.Hour
)

type draftSyncJob struct {
	syncService DraftSyncService
	monitor     ConnectivityMonitor
	interval    time.Duration

	logger *logger.Logger
}

// NewDraftSyncJob creates a job that calls syncService.SyncPending every
// interval while the monitor reports the server online, and immediately on
// every offline to online transition. If interval is zero or negative it
// defaults to 5 minutes.
func NewDraftSyncJob(syncService DraftSyncService, monitor ConnectivityMonitor, interval time.Duration, logger *logger.Logger) ClientJob {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &draftSyncJob{syncService: syncService, monitor: monitor, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. Failed passes are logged and retried on
// the next tick.
func (j *draftSyncJob) Run(ctx context.Context) error {
	online, unsubscribe := j.monitor.Subscribe()
	defer unsubscribe()

	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-online:
			j.pass(ctx, "connectivity restored")
		case <-t.C:
			if j.monitor.Online() {
				j.pass(ctx, "interval")
			}
		}
	}
}

func (j *draftSyncJob) pass(ctx context.Context, trigger string) {
	report, err := j.syncService.SyncPending(ctx)
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Err(err).
				Str("func", "draftSyncJob.pass").
				Str("trigger", trigger).
				Msg("sync pass failed")
		}
		return
	}

	j.logger.Debug().
		Str("func", "draftSyncJob.pass").
		Str("trigger", trigger).
		Int("submitted", report.Submitted).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("sync pass done")
}

type draftReaperJob struct {
	drafts   DraftStore
	interval time.Duration

	logger *logger.Logger
}

// NewDraftReaperJob creates a job that reaps expired drafts once at start
// and then every interval (default one hour).
func NewDraftReaperJob(drafts DraftStore, interval time.Duration, logger *logger.Logger) ClientJob {
	if interval <= 0 {
		interval = defaultReapInterval
	}
	return &draftReaperJob{drafts: drafts, interval: interval, logger: logger}
}

func (j *draftReaperJob) Run(ctx context.Context) error {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	j.reap(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			j.reap(ctx)
		}
	}
}

func (j *draftReaperJob) reap(ctx context.Context) {
	removed, err := j.drafts.Reap(ctx)
	if err != nil {
		j.logger.Err(err).
			Str("func", "draftReaperJob.reap").
			Msg("reaping expired drafts failed")
		return
	}

	j.logger.Debug().
		Str("func", "draftReaperJob.reap").
		Int("removed", removed).
		Msg("reap done")
}

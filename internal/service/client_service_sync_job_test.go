package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/mock"
	"github.com/fleetzen/fleetzen/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// runJob starts job in the background and returns a stop func that cancels
// it and waits for Run to return.
func runJob(t *testing.T, job ClientJob) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- job.Run(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("job did not stop")
		}
	}
}

// ── DraftSyncJob ─────────────────────────────────────────────────────────────

func TestDraftSyncJob_RunsOnReconnect(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockDraftSyncService(ctrl)
	monitor := mock.NewMockConnectivityMonitor(ctrl)

	online := make(chan struct{}, 1)
	monitor.EXPECT().Subscribe().Return((<-chan struct{})(online), func() {})

	passed := make(chan struct{})
	syncSvc.EXPECT().SyncPending(gomock.Any()).DoAndReturn(func(context.Context) (models.SyncReport, error) {
		close(passed)
		return models.SyncReport{Submitted: 2}, nil
	})

	stop := runJob(t, NewDraftSyncJob(syncSvc, monitor, time.Hour, logger.Nop()))
	defer stop()

	online <- struct{}{}

	select {
	case <-passed:
	case <-time.After(time.Second):
		t.Fatal("sync pass was not triggered by reconnect")
	}
}

func TestDraftSyncJob_TickOnlyWhenOnline(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockDraftSyncService(ctrl)
	monitor := mock.NewMockConnectivityMonitor(ctrl)

	monitor.EXPECT().Subscribe().Return((<-chan struct{})(make(chan struct{})), func() {})

	passed := make(chan struct{}, 1)
	gomock.InOrder(
		monitor.EXPECT().Online().Return(false),
		monitor.EXPECT().Online().Return(true).AnyTimes(),
	)
	syncSvc.EXPECT().SyncPending(gomock.Any()).DoAndReturn(func(context.Context) (models.SyncReport, error) {
		select {
		case passed <- struct{}{}:
		default:
		}
		return models.SyncReport{}, errors.New("storage failure")
	}).MinTimes(1)

	stop := runJob(t, NewDraftSyncJob(syncSvc, monitor, 10*time.Millisecond, logger.Nop()))
	defer stop()

	select {
	case <-passed:
	case <-time.After(time.Second):
		t.Fatal("sync pass was not triggered by ticker")
	}
}

func TestNewDraftSyncJob_DefaultInterval(t *testing.T) {
	job := NewDraftSyncJob(nil, nil, 0, logger.Nop()).(*draftSyncJob)
	assert.Equal(t, defaultSyncInterval, job.interval)
}

// ── DraftReaperJob ───────────────────────────────────────────────────────────

func TestDraftReaperJob_ReapsAtStartAndOnTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	drafts := mock.NewMockDraftStore(ctrl)

	reaped := make(chan struct{}, 4)
	drafts.EXPECT().Reap(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		select {
		case reaped <- struct{}{}:
		default:
		}
		return 1, nil
	}).MinTimes(2)

	stop := runJob(t, NewDraftReaperJob(drafts, 10*time.Millisecond, logger.Nop()))

	for range 2 {
		select {
		case <-reaped:
		case <-time.After(time.Second):
			t.Fatal("reaper did not run")
		}
	}
	stop()
}

func TestDraftReaperJob_ErrorsDoNotStopJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	drafts := mock.NewMockDraftStore(ctrl)

	reaped := make(chan struct{}, 4)
	drafts.EXPECT().Reap(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		select {
		case reaped <- struct{}{}:
		default:
		}
		return 0, ErrStorageFailure
	}).MinTimes(2)

	stop := runJob(t, NewDraftReaperJob(drafts, 10*time.Millisecond, logger.Nop()))

	for range 2 {
		select {
		case <-reaped:
		case <-time.After(time.Second):
			t.Fatal("reaper stopped after an error")
		}
	}
	stop()
}

func TestNewDraftReaperJob_DefaultInterval(t *testing.T) {
	job := NewDraftReaperJob(nil, -time.Second, logger.Nop()).(*draftReaperJob)
	assert.Equal(t, defaultReapInterval, job.interval)
}

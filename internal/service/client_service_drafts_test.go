// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/mock"
	"github.com/fleetzen/fleetzen/internal/store"
	"github.com/fleetzen/fleetzen/internal/testutil"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	baseTime        = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	testRetention   = 72 * time.Hour
	testDraftConfig = config.Drafts{RetentionWindow: testRetention, MaxPhotos: 2}
)

// newSQLiteDraftStore builds a draftStore over a real SQLite file and blob
// directory in t.TempDir, driven by a fake clock.
func newSQLiteDraftStore(t *testing.T) (*draftStore, *testutil.FakeClock) {
	t.Helper()
	dir := t.TempDir()

	storages, err := store.NewClientStorages(context.Background(), config.ClientStorage{
		DB:       config.ClientDB{DSN: filepath.Join(dir, "drafts.db")},
		BlobsDir: filepath.Join(dir, "photos"),
	}, logger.Nop())
	require.NoError(t, err)

	clock := testutil.NewFakeClock(baseTime)
	s := NewDraftStore(storages, testDraftConfig, clock, logger.Nop()).(*draftStore)
	t.Cleanup(func() { _ = s.Close() })

	return s, clock
}

// newMockDraftStore builds a draftStore over mocked storage for failure paths.
func newMockDraftStore(t *testing.T, ctrl *gomock.Controller) (*draftStore, *mock.MockDraftRepository, *mock.MockPhotoBlobStore) {
	t.Helper()
	repo := mock.NewMockDraftRepository(ctrl)
	blobs := mock.NewMockPhotoBlobStore(ctrl)

	storages := &store.ClientStorages{DraftRepository: repo, PhotoBlobStore: blobs}
	s := NewDraftStore(storages, testDraftConfig, testutil.NewFakeClock(baseTime), logger.Nop()).(*draftStore)

	return s, repo, blobs
}

func testPhoto(b byte) models.PhotoBlob {
	return models.PhotoBlob{Data: []byte{0xFF, 0xD8, b, b, 0xFF, 0xD9}, ContentType: "image/jpeg", Width: 4, Height: 3}
}

// ── Create / Get ─────────────────────────────────────────────────────────────

func TestDraftStore_CreateThenGet(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := utils.WithAgent(context.Background(), models.Agent{ID: "agent-7", Name: "Nadia"})

	vehicle := "veh-42"
	created, err := s.Create(ctx, models.FuelDelivery, models.Payload{"liters": 40.5}, models.References{VehicleRef: &vehicle})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.FuelDelivery, got.Type)
	assert.Equal(t, models.LocalOnly, got.SyncState)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	assert.True(t, got.CreatedAt.Equal(baseTime))
	assert.True(t, got.ExpiresAt.Equal(baseTime.Add(testRetention)))
	assert.Equal(t, 40.5, got.Payload["liters"])
	require.NotNil(t, got.VehicleRef)
	assert.Equal(t, "veh-42", *got.VehicleRef)
	assert.Nil(t, got.ClientRef)
	assert.Equal(t, "agent-7", got.AgentID)
	assert.Equal(t, "Nadia", got.AgentName)
	assert.Empty(t, got.PhotoRefs)
	assert.Nil(t, got.SyncFailureReason)
}

func TestDraftStore_Create_UnknownType(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)

	_, err := s.Create(context.Background(), models.InterventionType("oil-change"), nil, models.References{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	drafts, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestDraftStore_Create_IDsAreUnique(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)

	seen := make(map[string]struct{})
	for range 20 {
		d, err := s.Create(context.Background(), models.Washing, nil, models.References{})
		require.NoError(t, err)
		_, dup := seen[d.ID]
		require.False(t, dup, "id %s reused", d.ID)
		seen[d.ID] = struct{}{}
	}
}

func TestDraftStore_Get_Unknown(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// ── Update ───────────────────────────────────────────────────────────────────

func TestDraftStore_Update_ShallowMergeInCallOrder(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.TankFill, models.Payload{"tankId": "T-1", "liters": 100.0}, models.References{})
	require.NoError(t, err)

	patches := []models.Payload{
		{"liters": 120.0},
		{"levelBeforePct": 10.0},
		{"liters": 150.0, "levelAfterPct": 90.0},
	}
	var last time.Time
	for _, patch := range patches {
		clock.Advance(time.Minute)
		last = clock.Now()
		_, err = s.Update(ctx, d.ID, patch)
		require.NoError(t, err)
	}

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)

	assert.Equal(t, models.Payload{
		"tankId":         "T-1",
		"liters":         150.0,
		"levelBeforePct": 10.0,
		"levelAfterPct":  90.0,
	}, got.Payload)
	assert.True(t, got.UpdatedAt.Equal(last))
	assert.True(t, got.ExpiresAt.Equal(d.ExpiresAt), "edits must not extend expiry")
	assert.Equal(t, int64(4), got.Version)
}

func TestDraftStore_Update_Unknown(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)

	_, err := s.Update(context.Background(), "missing", models.Payload{"a": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftStore_Update_Expired(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)

	clock.Advance(testRetention + time.Nanosecond)

	_, err = s.Update(ctx, d.ID, models.Payload{"washType": "interior"})
	assert.ErrorIs(t, err, ErrExpired)

	raw, err := s.Inspect(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, raw.Payload, "expired drafts are immutable")
}

func TestDraftStore_Update_ClockBehindCreation(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)

	clock.Set(baseTime.Add(-time.Hour))
	got, err := s.Update(ctx, d.ID, models.Payload{"notes": "clock skew"})
	require.NoError(t, err)

	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestDraftStore_Update_CancelledContextStillCompletes(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)

	d, err := s.Create(context.Background(), models.Washing, nil, models.References{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Update(ctx, d.ID, models.Payload{"washType": "exterior"})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "exterior", got.Payload["washType"])
}

func TestDraftStore_Update_ConcurrentWritersNeverLoseUpdates(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, d.ID, models.Payload{fmt.Sprintf("field%02d", i): float64(i)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payload, writers)
	assert.Equal(t, int64(writers+1), got.Version)
	assert.Zero(t, s.locks.size(), "per-draft locks must be released")
}

// ── AddPhoto ─────────────────────────────────────────────────────────────────

func TestDraftStore_AddPhoto_LimitExceeded(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)

	var ids []string
	for i := range testDraftConfig.MaxPhotos {
		clock.Advance(time.Second)
		got, err := s.AddPhoto(ctx, d.ID, testPhoto(byte(i)))
		require.NoError(t, err)
		ids = append(ids, got.PhotoRefs[i].ID)
	}

	_, err = s.AddPhoto(ctx, d.ID, testPhoto(9))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, got.PhotoRefs, testDraftConfig.MaxPhotos)
	for i, ref := range got.PhotoRefs {
		assert.Equal(t, ids[i], ref.ID, "photos keep insertion order")
		assert.Equal(t, int64(6), ref.Size)
		assert.Equal(t, "image/jpeg", ref.ContentType)
	}
	assert.True(t, got.PhotoRefs[0].AddedAt.Before(got.PhotoRefs[1].AddedAt))

	data, err := s.PhotoData(ctx, got.PhotoRefs[1])
	require.NoError(t, err)
	assert.Equal(t, testPhoto(1).Data, data)
}

func TestDraftStore_AddPhoto_EmptyBlob(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)

	d, err := s.Create(context.Background(), models.Washing, nil, models.References{})
	require.NoError(t, err)

	_, err = s.AddPhoto(context.Background(), d.ID, models.PhotoBlob{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDraftStore_AddPhoto_ReplaceFailureDropsBlob(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, repo, blobs := newMockDraftStore(t, ctrl)
	ctx := context.Background()

	stored := models.Draft{
		ID: "d-1", Type: models.Washing, Payload: models.Payload{},
		CreatedAt: baseTime, UpdatedAt: baseTime, ExpiresAt: baseTime.Add(testRetention),
		SyncState: models.LocalOnly, Version: 3,
	}

	var savedID string
	repo.EXPECT().Get(gomock.Any(), "d-1").Return(stored, nil)
	blobs.EXPECT().Save(gomock.Any(), gomock.Any(), testPhoto(1).Data).
		DoAndReturn(func(_ context.Context, id string, _ []byte) error {
			savedID = id
			return nil
		})
	repo.EXPECT().Replace(gomock.Any(), gomock.Any(), int64(3)).Return(errors.New("disk I/O error"))
	blobs.EXPECT().DeleteMany(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ids ...string) error {
			assert.Equal(t, []string{savedID}, ids)
			return nil
		})

	_, err := s.AddPhoto(ctx, "d-1", testPhoto(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageFailure)
}

// ── List ─────────────────────────────────────────────────────────────────────

func TestDraftStore_List_NewestFirst(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	var ids []string
	for range 3 {
		d, err := s.Create(ctx, models.Washing, nil, models.References{})
		require.NoError(t, err)
		ids = append(ids, d.ID)
		clock.Advance(time.Minute)
	}

	drafts, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{drafts[0].ID, drafts[1].ID, drafts[2].ID})
}

func TestDraftStore_List_ExpiryBoundary(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)

	clock.Set(d.ExpiresAt)
	drafts, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, drafts, 1, "a draft is still listed at exactly its expiry instant")
	_, err = s.Get(ctx, d.ID)
	require.NoError(t, err)

	clock.Advance(time.Nanosecond)
	drafts, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestDraftStore_List_FailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, repo, _ := newMockDraftStore(t, ctrl)

	repo.EXPECT().ListActive(gomock.Any(), baseTime).Return(nil, fmt.Errorf("%w: database is locked", store.ErrStorageBusy))

	drafts, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}

// ── state machine ───────────────────────────────────────────────────────────

func TestDraftStore_MarkSynced_RemovesDraftAndPhotos(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, models.Payload{"washType": "complete"}, models.References{})
	require.NoError(t, err)
	d, err = s.AddPhoto(ctx, d.ID, testPhoto(1))
	require.NoError(t, err)

	_, err = s.MarkSyncPending(ctx, d.ID)
	require.NoError(t, err)
	require.NoError(t, s.MarkSynced(ctx, d.ID))

	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.PhotoData(ctx, d.PhotoRefs[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftStore_SyncPendingLocksEdits(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)

	pending, err := s.MarkSyncPending(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncPending, pending.SyncState)

	_, err = s.Update(ctx, d.ID, models.Payload{"washType": "exterior"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.AddPhoto(ctx, d.ID, testPhoto(1))
	assert.ErrorIs(t, err, ErrConflict)

	failed, err := s.MarkSyncFailed(ctx, d.ID, "network")
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailed, failed.SyncState)
	require.NotNil(t, failed.SyncFailureReason)
	assert.Equal(t, "network", *failed.SyncFailureReason)

	updated, err := s.Update(ctx, d.ID, models.Payload{"washType": "exterior"})
	require.NoError(t, err)
	assert.Equal(t, "exterior", updated.Payload["washType"])
	assert.Equal(t, models.SyncFailed, updated.SyncState)

	retried, err := s.MarkSyncPending(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncPending, retried.SyncState)
	assert.Nil(t, retried.SyncFailureReason)
}

func TestDraftStore_InvalidTransitions(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)

	assert.ErrorIs(t, s.MarkSynced(ctx, d.ID), ErrConflict)
	_, err = s.MarkSyncFailed(ctx, d.ID, "nope")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.MarkSyncPending(ctx, d.ID)
	require.NoError(t, err)
	_, err = s.MarkSyncPending(ctx, d.ID)
	assert.ErrorIs(t, err, ErrConflict)

	assert.ErrorIs(t, s.MarkSynced(ctx, "missing"), ErrNotFound)
	_, err = s.MarkSyncPending(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncPending, got.SyncState)
}

func TestDraftStore_MarkSyncPending_Expired(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)
	clock.Advance(testRetention + time.Second)

	_, err = s.MarkSyncPending(ctx, d.ID)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDraftStore_VersionConflictSurfacesAsConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, repo, _ := newMockDraftStore(t, ctrl)

	stored := models.Draft{
		ID: "d-1", Type: models.Washing, Payload: models.Payload{},
		CreatedAt: baseTime, UpdatedAt: baseTime, ExpiresAt: baseTime.Add(testRetention),
		SyncState: models.LocalOnly, Version: 5,
	}
	repo.EXPECT().Get(gomock.Any(), "d-1").Return(stored, nil)
	repo.EXPECT().Replace(gomock.Any(), gomock.Any(), int64(5)).
		Return(fmt.Errorf("%w: d-1", store.ErrDraftVersionConflict))

	_, err := s.Update(context.Background(), "d-1", models.Payload{"notes": "x"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDraftStore_WriteFailureIsStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	s, repo, _ := newMockDraftStore(t, ctrl)

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := s.Create(context.Background(), models.Washing, nil, models.References{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageFailure)
}

// ── Delete / Reap ────────────────────────────────────────────────────────────

func TestDraftStore_Delete_Idempotent(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)
	d, err = s.AddPhoto(ctx, d.ID, testPhoto(2))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, d.ID))
	require.NoError(t, s.Delete(ctx, d.ID))
	require.NoError(t, s.Delete(ctx, "never-existed"))

	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.PhotoData(ctx, d.PhotoRefs[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftStore_Reap_RemovesOnlyExpired(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	old, err := s.Create(ctx, models.Washing, nil, models.References{})
	require.NoError(t, err)
	_, err = s.MarkSyncPending(ctx, old.ID)
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)
	fresh, err := s.Create(ctx, models.TankFill, nil, models.References{})
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	removed, err := s.Reap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "expired drafts are reaped regardless of sync state")

	_, err = s.Inspect(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, fresh.ID)
	require.NoError(t, err)

	removed, err = s.Reap(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

// ── scenarios ────────────────────────────────────────────────────────────────

func TestDraftStore_Scenario_WashingDraftWithPhoto(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.Washing, models.Payload{}, models.References{})
	require.NoError(t, err)
	_, err = s.Update(ctx, d.ID, models.Payload{"washType": "complete"})
	require.NoError(t, err)
	_, err = s.AddPhoto(ctx, d.ID, testPhoto(0xA))
	require.NoError(t, err)

	drafts, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "complete", drafts[0].Payload["washType"])
	assert.Len(t, drafts[0].PhotoRefs, 1)
}

func TestDraftStore_Scenario_ExpiryThenReap(t *testing.T) {
	s, clock := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.FuelDelivery, nil, models.References{})
	require.NoError(t, err)

	clock.Set(d.ExpiresAt.Add(time.Second))

	drafts, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)

	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrExpired)

	raw, err := s.Inspect(ctx, d.ID)
	require.NoError(t, err, "reads never reap")
	assert.Equal(t, d.ID, raw.ID)

	removed, err := s.Reap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftStore_Scenario_ConflictThenRecover(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)
	ctx := context.Background()

	d, err := s.Create(ctx, models.TankFill, nil, models.References{})
	require.NoError(t, err)

	_, err = s.MarkSyncPending(ctx, d.ID)
	require.NoError(t, err)

	_, err = s.Update(ctx, d.ID, models.Payload{"tankId": "T-9"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.MarkSyncFailed(ctx, d.ID, "network")
	require.NoError(t, err)

	_, err = s.Update(ctx, d.ID, models.Payload{"tankId": "T-9"})
	require.NoError(t, err)
}

// ── lifecycle ────────────────────────────────────────────────────────────────

func TestDraftStore_Close_Idempotent(t *testing.T) {
	s, _ := newSQLiteDraftStore(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.Lock("a")
	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		km.Lock("a")()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock on the same key must wait")
	case <-time.After(20 * time.Millisecond):
	}

	otherDone := make(chan struct{})
	go func() {
		defer close(otherDone)
		km.Lock("b")()
	}()
	select {
	case <-otherDone:
	case <-time.After(time.Second):
		t.Fatal("different keys must not block each other")
	}

	unlock()
	<-acquired
	assert.Zero(t, km.size())
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newSQLiteRepo(t *testing.T) DraftRepository {
	t.Helper()
	ctx := context.Background()

	db, err := NewConnectSQLite(ctx, config.ClientDB{DSN: filepath.Join(t.TempDir(), "drafts.db")}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.MigrateClient(ctx))
	return NewDraftRepository(db, logger.Nop())
}

func strPtr(s string) *string { return &s }

func newTestDraft(id string, created time.Time) models.Draft {
	return models.Draft{
		ID:        id,
		Type:      models.Washing,
		Payload:   models.Payload{"washType": "exterior"},
		AgentID:   "agent-1",
		CreatedAt: created,
		UpdatedAt: created,
		ExpiresAt: created.Add(72 * time.Hour),
		SyncState: models.LocalOnly,
		PhotoRefs: []models.PhotoRef{},
		Version:   1,
	}
}

func TestDraftRepository_InsertGetRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	d := newTestDraft("d-1", baseTime.Add(123456789*time.Nanosecond))
	d.References.VehicleRef = strPtr("veh-42")
	d.PhotoRefs = []models.PhotoRef{{ID: "p-1", Size: 2048, ContentType: "image/jpeg", Width: 800, Height: 600, AddedAt: baseTime}}

	require.NoError(t, repo.Insert(ctx, d))

	got, err := repo.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Type, got.Type)
	assert.Equal(t, "exterior", got.Payload["washType"])
	require.NotNil(t, got.VehicleRef)
	assert.Equal(t, "veh-42", *got.VehicleRef)
	assert.Nil(t, got.ClientRef)
	assert.True(t, d.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, d.ExpiresAt.Equal(got.ExpiresAt))
	assert.Equal(t, models.LocalOnly, got.SyncState)
	assert.Equal(t, d.PhotoRefs, got.PhotoRefs)
	assert.Equal(t, int64(1), got.Version)
}

func TestDraftRepository_InsertDuplicate(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestDraft("d-1", baseTime)))
	err := repo.Insert(ctx, newTestDraft("d-1", baseTime))
	assert.ErrorIs(t, err, ErrDraftAlreadyExists)
}

func TestDraftRepository_GetNotFound(t *testing.T) {
	repo := newSQLiteRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftRepository_ReplaceCompareAndSwap(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	d := newTestDraft("d-1", baseTime)
	require.NoError(t, repo.Insert(ctx, d))

	next := d.Clone()
	next.Payload["washType"] = "complete"
	next.UpdatedAt = baseTime.Add(time.Minute)
	next.SyncState = models.SyncFailed
	next.SyncFailureReason = strPtr("network")
	next.Version = 2
	require.NoError(t, repo.Replace(ctx, next, 1))

	got, err := repo.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "complete", got.Payload["washType"])
	assert.Equal(t, models.SyncFailed, got.SyncState)
	require.NotNil(t, got.SyncFailureReason)
	assert.Equal(t, "network", *got.SyncFailureReason)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, baseTime.Equal(got.CreatedAt), "created_at is never rewritten")

	stale := next.Clone()
	stale.Version = 2
	assert.ErrorIs(t, repo.Replace(ctx, stale, 1), ErrDraftVersionConflict)

	ghost := newTestDraft("ghost", baseTime)
	ghost.Version = 2
	assert.ErrorIs(t, repo.Replace(ctx, ghost, 1), ErrDraftNotFound)
}

func TestDraftRepository_ReplaceClearsFailureReason(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	d := newTestDraft("d-1", baseTime)
	d.SyncState = models.SyncFailed
	d.SyncFailureReason = strPtr("rejected")
	require.NoError(t, repo.Insert(ctx, d))

	next := d.Clone()
	next.SyncState = models.SyncPending
	next.SyncFailureReason = nil
	next.Version = 2
	require.NoError(t, repo.Replace(ctx, next, 1))

	got, err := repo.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Nil(t, got.SyncFailureReason)
}

func TestDraftRepository_ListActive(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	older := newTestDraft("older", baseTime)
	newer := newTestDraft("newer", baseTime.Add(time.Hour))
	expired := newTestDraft("expired", baseTime.Add(-100*time.Hour))
	for _, d := range []models.Draft{older, expired, newer} {
		require.NoError(t, repo.Insert(ctx, d))
	}

	drafts, err := repo.ListActive(ctx, baseTime.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "newer", drafts[0].ID)
	assert.Equal(t, "older", drafts[1].ID)

	// a draft is still listed at the exact expiry instant
	drafts, err = repo.ListActive(ctx, older.ExpiresAt)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	drafts, err = repo.ListActive(ctx, older.ExpiresAt.Add(time.Nanosecond))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "newer", drafts[0].ID)
}

func TestDraftRepository_ListActiveEmpty(t *testing.T) {
	repo := newSQLiteRepo(t)

	drafts, err := repo.ListActive(context.Background(), baseTime)
	require.NoError(t, err)
	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}

func TestDraftRepository_Delete(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newTestDraft("d-1", baseTime)))

	existed, err := repo.Delete(ctx, "d-1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "d-1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestDraftRepository_DeleteExpired(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	fresh := newTestDraft("fresh", baseTime)
	stale := newTestDraft("stale", baseTime.Add(-73*time.Hour))
	stale.SyncState = models.SyncPending
	stale.PhotoRefs = []models.PhotoRef{{ID: "p-9", Size: 10}}
	require.NoError(t, repo.Insert(ctx, fresh))
	require.NoError(t, repo.Insert(ctx, stale))

	removed, err := repo.DeleteExpired(ctx, baseTime)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "stale", removed[0].ID)
	assert.Equal(t, "p-9", removed[0].PhotoRefs[0].ID)

	_, err = repo.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = repo.Get(ctx, "fresh")
	assert.NoError(t, err)

	removed, err = repo.DeleteExpired(ctx, baseTime)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func newMockDraftRepo(t *testing.T) (DraftRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storeDB := &DB{DB: db, errorClassificator: NewSQLiteErrorClassifier(), logger: logger.Nop()}
	return NewDraftRepository(storeDB, logger.Nop()), mock
}

func TestDraftRepository_DriverFailures(t *testing.T) {
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	t.Run("insert", func(t *testing.T) {
		repo, mock := newMockDraftRepo(t)
		mock.ExpectExec("INSERT INTO drafts").WillReturnError(diskErr)

		err := repo.Insert(ctx, newTestDraft("d-1", baseTime))
		assert.ErrorIs(t, err, ErrExecutingQuery)
		assert.ErrorIs(t, err, diskErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get", func(t *testing.T) {
		repo, mock := newMockDraftRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM drafts WHERE id = ?").
			WithArgs("d-1").
			WillReturnError(diskErr)

		_, err := repo.Get(ctx, "d-1")
		assert.ErrorIs(t, err, ErrScanningRow)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list", func(t *testing.T) {
		repo, mock := newMockDraftRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM drafts WHERE expires_at >= ?").WillReturnError(diskErr)

		_, err := repo.ListActive(ctx, baseTime)
		assert.ErrorIs(t, err, ErrExecutingQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt payload", func(t *testing.T) {
		repo, mock := newMockDraftRepo(t)
		row := sqlmock.NewRows(draftColumns).AddRow(
			"d-1", "washing", "{not json", "{}", "", "",
			formatTime(baseTime), formatTime(baseTime), formatTime(baseTime.Add(time.Hour)),
			"local-only", nil, "[]", int64(1),
		)
		mock.ExpectQuery("SELECT (.+) FROM drafts").WillReturnRows(row)

		_, err := repo.Get(ctx, "d-1")
		assert.ErrorIs(t, err, ErrDecodingRecord)
	})

	t.Run("delete expired rolls back", func(t *testing.T) {
		repo, mock := newMockDraftRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM drafts WHERE expires_at < ?").
			WillReturnRows(sqlmock.NewRows(draftColumns))
		mock.ExpectExec("DELETE FROM drafts WHERE expires_at < ?").WillReturnError(diskErr)
		mock.ExpectRollback()

		_, err := repo.DeleteExpired(ctx, baseTime)
		assert.ErrorIs(t, err, ErrExecutingQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

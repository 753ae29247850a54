package store

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockInterventionRepo(t *testing.T) (InterventionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storeDB := &DB{DB: db, errorClassificator: NewPostgresErrorClassifier(), logger: logger.Nop()}
	return NewInterventionRepository(storeDB, logger.Nop()), mock
}

func testIntervention() models.Intervention {
	return models.Intervention{
		DraftID:    "d-1",
		Type:       models.FuelDelivery,
		Payload:    models.Payload{"liters": 120.0, "fuelType": "diesel"},
		AgentID:    "agent-1",
		PhotoCount: 1,
		PhotoBytes: 3,
		CreatedAt:  baseTime,
		ReceivedAt: baseTime.Add(time.Hour),
	}
}

func TestInterventionRepository_SaveNew(t *testing.T) {
	repo, mock := newMockInterventionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO interventions \((.+)\) VALUES \((.+)\) ON CONFLICT \(draft_id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO intervention_photos`).
		WithArgs("d-1", "p-1", int64(0), "image/jpeg", int64(10), int64(20), int64(3), []byte("abc")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	photos := []models.SubmissionPhoto{{
		PhotoRef: models.PhotoRef{ID: "p-1", Size: 3, ContentType: "image/jpeg", Width: 10, Height: 20},
		Data:     []byte("abc"),
	}}

	duplicate, err := repo.Save(context.Background(), testIntervention(), photos)
	require.NoError(t, err)
	assert.False(t, duplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterventionRepository_SaveDuplicate(t *testing.T) {
	repo, mock := newMockInterventionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO interventions`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	duplicate, err := repo.Save(context.Background(), testIntervention(), []models.SubmissionPhoto{{Data: []byte("x")}})
	require.NoError(t, err)
	assert.True(t, duplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterventionRepository_SaveRetryableError(t *testing.T) {
	repo, mock := newMockInterventionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO interventions`).WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()

	_, err := repo.Save(context.Background(), testIntervention(), nil)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.ErrorIs(t, err, ErrStorageBusy)
}

func TestInterventionRepository_Get(t *testing.T) {
	repo, mock := newMockInterventionRepo(t)
	site := "site-7"

	rows := sqlmock.NewRows(interventionColumns).AddRow(
		"d-1", "fuel-delivery", []byte(`{"liters":120,"fuelType":"diesel"}`),
		nil, site, nil, "agent-1", 1, int64(3), baseTime, baseTime.Add(time.Hour),
	)
	mock.ExpectQuery(`SELECT (.+) FROM interventions WHERE draft_id = \$1`).
		WithArgs("d-1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, models.FuelDelivery, got.Type)
	assert.Equal(t, "diesel", got.Payload["fuelType"])
	require.NotNil(t, got.SiteRef)
	assert.Equal(t, "site-7", *got.SiteRef)
	assert.Nil(t, got.ClientRef)
	assert.Equal(t, 1, got.PhotoCount)
}

func TestInterventionRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockInterventionRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM interventions`).WillReturnRows(sqlmock.NewRows(interventionColumns))

	_, err := repo.Get(context.Background(), "d-x")
	assert.ErrorIs(t, err, ErrInterventionNotFound)
}

func TestPostgresError(t *testing.T) {
	assert.Equal(t, "23505", postgresError(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, "", postgresError(errors.New("plain")))
}

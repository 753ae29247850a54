package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/models"
)

type draftRepository struct {
	*DB
	logger *logger.Logger
}

// NewDraftRepository returns the SQLite-backed [DraftRepository].
func NewDraftRepository(db *DB, logger *logger.Logger) DraftRepository {
	return &draftRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *draftRepository) Insert(ctx context.Context, draft models.Draft) error {
	log := logger.FromContext(ctx)

	row, err := newDraftRow(draft)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := buildInsertDraftQuery(row)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		if isSQLiteUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDraftAlreadyExists, draft.ID)
		}
		log.Err(err).
			Str("func", "draftRepository.Insert").
			Str("draft_id", draft.ID).
			Msg("failed to insert draft")
		return r.wrapDriverError(ErrExecutingQuery, err)
	}

	return nil
}

func (r *draftRepository) Replace(ctx context.Context, draft models.Draft, expectedVersion int64) error {
	log := logger.FromContext(ctx)

	row, err := newDraftRow(draft)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := buildReplaceDraftQuery(row, expectedVersion)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.Replace").
			Str("draft_id", draft.ID).
			Int64("expected_version", expectedVersion).
			Msg("failed to replace draft")
		return r.wrapDriverError(ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return r.wrapDriverError(ErrExecutingQuery, err)
	}
	if affected == 1 {
		return nil
	}

	exists, err := r.exists(ctx, draft.ID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, draft.ID)
	}

	log.Warn().
		Str("func", "draftRepository.Replace").
		Str("draft_id", draft.ID).
		Int64("expected_version", expectedVersion).
		Msg("stale draft version")
	return fmt.Errorf("%w: %s", ErrDraftVersionConflict, draft.ID)
}

func (r *draftRepository) exists(ctx context.Context, id string) (bool, error) {
	query, args, err := buildDraftExistsQuery(id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, r.wrapDriverError(ErrScanningRow, err)
	}

	return count > 0, nil
}

func (r *draftRepository) Get(ctx context.Context, id string) (models.Draft, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetDraftQuery(id)
	if err != nil {
		return models.Draft{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var row draftRow
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(row.scanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Draft{}, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.Get").
			Str("draft_id", id).
			Msg("failed to scan draft row")
		return models.Draft{}, r.wrapDriverError(ErrScanningRow, err)
	}

	draft, err := row.toDraft()
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.Get").
			Str("draft_id", id).
			Msg("failed to decode draft row")
		return models.Draft{}, err
	}

	return draft, nil
}

func (r *draftRepository) ListActive(ctx context.Context, now time.Time) ([]models.Draft, error) {
	query, args, err := buildListActiveDraftsQuery(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryDrafts(ctx, "draftRepository.ListActive", r.DB, query, args...)
}

func (r *draftRepository) Delete(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteDraftQuery(id)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "draftRepository.Delete").
			Str("draft_id", id).
			Msg("failed to delete draft")
		return false, r.wrapDriverError(ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, r.wrapDriverError(ErrExecutingQuery, err)
	}

	return affected > 0, nil
}

func (r *draftRepository) DeleteExpired(ctx context.Context, now time.Time) ([]models.Draft, error) {
	log := logger.FromContext(ctx)

	selectQuery, selectArgs, err := buildListExpiredDraftsQuery(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	deleteQuery, deleteArgs, err := buildDeleteExpiredDraftsQuery(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "draftRepository.DeleteExpired").Msg("failed to begin transaction")
		return nil, r.wrapDriverError(ErrExecutingQuery, err)
	}
	defer tx.Rollback()

	expired, err := r.queryDrafts(ctx, "draftRepository.DeleteExpired", tx, selectQuery, selectArgs...)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		log.Err(err).Str("func", "draftRepository.DeleteExpired").Msg("failed to delete expired drafts")
		return nil, r.wrapDriverError(ErrExecutingQuery, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "draftRepository.DeleteExpired").Msg("failed to commit transaction")
		return nil, r.wrapDriverError(ErrExecutingQuery, err)
	}

	return expired, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *draftRepository) queryDrafts(ctx context.Context, fn string, q queryer, query string, args ...any) ([]models.Draft, error) {
	log := logger.FromContext(ctx)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to query drafts")
		return nil, r.wrapDriverError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	drafts := make([]models.Draft, 0)
	for rows.Next() {
		var row draftRow
		if err = rows.Scan(row.scanTargets()...); err != nil {
			log.Err(err).Str("func", fn).Msg("failed to scan draft row")
			return nil, r.wrapDriverError(ErrScanningRow, err)
		}

		draft, err := row.toDraft()
		if err != nil {
			log.Err(err).Str("func", fn).Str("draft_id", row.ID).Msg("failed to decode draft row")
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error occurred during rows iteration")
		return nil, r.wrapDriverError(ErrScanningRow, err)
	}

	return drafts, nil
}

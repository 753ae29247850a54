package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/models"
)

type interventionRepository struct {
	*DB
	logger *logger.Logger
}

// NewInterventionRepository returns the PostgreSQL-backed [InterventionRepository].
func NewInterventionRepository(db *DB, logger *logger.Logger) InterventionRepository {
	return &interventionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *interventionRepository) Save(ctx context.Context, intervention models.Intervention, photos []models.SubmissionPhoto) (bool, error) {
	log := logger.FromContext(ctx)

	payload := intervention.Payload
	if payload == nil {
		payload = models.Payload{}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("%w: encode payload: %w", ErrBuildingSQLQuery, err)
	}

	query, args, err := buildInsertInterventionQuery(intervention, payloadJSON)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "interventionRepository.Save").Msg("failed to begin transaction")
		return false, r.wrapDriverError(ErrExecutingQuery, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "interventionRepository.Save").
			Str("draft_id", intervention.DraftID).
			Str("pg_code", postgresError(err)).
			Msg("failed to insert intervention")
		return false, r.wrapDriverError(ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, r.wrapDriverError(ErrExecutingQuery, err)
	}
	if affected == 0 {
		log.Info().
			Str("func", "interventionRepository.Save").
			Str("draft_id", intervention.DraftID).
			Msg("duplicate submission ignored")
		return true, nil
	}

	if len(photos) > 0 {
		photoQuery, photoArgs, err := buildInsertInterventionPhotosQuery(intervention.DraftID, photos)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, photoQuery, photoArgs...); err != nil {
			log.Err(err).
				Str("func", "interventionRepository.Save").
				Str("draft_id", intervention.DraftID).
				Str("pg_code", postgresError(err)).
				Msg("failed to insert intervention photos")
			return false, r.wrapDriverError(ErrExecutingQuery, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "interventionRepository.Save").Msg("failed to commit transaction")
		return false, r.wrapDriverError(ErrExecutingQuery, err)
	}

	return false, nil
}

func (r *interventionRepository) Get(ctx context.Context, draftID string) (models.Intervention, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetInterventionQuery(draftID)
	if err != nil {
		return models.Intervention{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		item        models.Intervention
		kind        string
		payloadJSON []byte
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(
		&item.DraftID,
		&kind,
		&payloadJSON,
		&item.ClientRef,
		&item.SiteRef,
		&item.VehicleRef,
		&item.AgentID,
		&item.PhotoCount,
		&item.PhotoBytes,
		&item.CreatedAt,
		&item.ReceivedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Intervention{}, fmt.Errorf("%w: %s", ErrInterventionNotFound, draftID)
	}
	if err != nil {
		log.Err(err).
			Str("func", "interventionRepository.Get").
			Str("draft_id", draftID).
			Msg("failed to scan intervention row")
		return models.Intervention{}, r.wrapDriverError(ErrScanningRow, err)
	}

	item.Type = models.InterventionType(kind)
	if err = json.Unmarshal(payloadJSON, &item.Payload); err != nil {
		return models.Intervention{}, fmt.Errorf("%w: payload: %w", ErrDecodingRecord, err)
	}

	return item, nil
}

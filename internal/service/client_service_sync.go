package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fleetzen/fleetzen/internal/adapter"
	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/validators"
	"github.com/fleetzen/fleetzen/models"
	"golang.org/x/time/rate"
)

type draftSyncService struct {
	drafts    DraftStore
	adapter   adapter.ServerAdapter
	validator validators.Validator
	limiter   *rate.Limiter

	// one pass at a time
	mu sync.Mutex

	logger *logger.Logger
}

// NewDraftSyncService wires the draft store to the intake server. Submissions
// are throttled to cfg.SubmitRate per second with bursts of cfg.SubmitBurst;
// a non-positive rate disables throttling.
func NewDraftSyncService(drafts DraftStore, serverAdapter adapter.ServerAdapter, validator validators.Validator, cfg config.ClientAdapter, logger *logger.Logger) DraftSyncService {
	limit := rate.Inf
	if cfg.SubmitRate > 0 {
		limit = rate.Limit(cfg.SubmitRate)
	}
	burst := cfg.SubmitBurst
	if burst <= 0 {
		burst = 1
	}

	return &draftSyncService{
		drafts:    drafts,
		adapter:   serverAdapter,
		validator: validator,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}
}

func (s *draftSyncService) SyncPending(ctx context.Context) (models.SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report models.SyncReport

	drafts, err := s.drafts.List(ctx)
	if err != nil {
		return report, err
	}

	for _, draft := range drafts {
		if err = ctx.Err(); err != nil {
			return report, err
		}

		switch draft.SyncState {
		case models.LocalOnly:
			pending, err := s.drafts.MarkSyncPending(ctx, draft.ID)
			if err != nil {
				// edited, expired or removed since it was listed
				s.logger.Debug().Err(err).
					Str("func", "draftSyncService.SyncPending").
					Str("draft_id", draft.ID).
					Msg("draft skipped")
				report.Skipped++
				continue
			}
			draft = pending
		case models.SyncPending:
			// left behind by an interrupted pass
		default:
			report.Skipped++
			continue
		}

		if err = s.submit(ctx, draft); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			report.Failed++
			continue
		}
		report.Submitted++
	}

	if report.Submitted+report.Failed > 0 {
		s.logger.Info().
			Str("func", "draftSyncService.SyncPending").
			Int("submitted", report.Submitted).
			Int("failed", report.Failed).
			Int("skipped", report.Skipped).
			Msg("sync pass finished")
	}

	return report, nil
}

func (s *draftSyncService) Retry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return err
	}
	if draft.SyncState != models.SyncFailed {
		return fmt.Errorf("%w: draft %s is %s, only %s drafts can be retried", ErrConflict, id, draft.SyncState, models.SyncFailed)
	}

	if draft, err = s.drafts.MarkSyncPending(ctx, id); err != nil {
		return err
	}

	return s.submit(ctx, draft)
}

// submit sends one sync-pending draft and settles its state. A cancelled ctx
// before the request is sent leaves the draft sync-pending for the next pass.
func (s *draftSyncService) submit(ctx context.Context, draft models.Draft) error {
	log := s.logger.With().
		Str("func", "draftSyncService.submit").
		Str("draft_id", draft.ID).
		Logger()

	err := s.validator.Validate(ctx, draft, validators.FieldID, validators.FieldType, validators.FieldPayloadComplete, validators.FieldPhotos)
	if err != nil {
		return s.fail(ctx, draft.ID, fmt.Errorf("%w: %w", ErrSubmissionRejected, err))
	}

	req, err := s.buildRequest(ctx, draft)
	if err != nil {
		return s.fail(ctx, draft.ID, err)
	}

	if err = s.limiter.Wait(ctx); err != nil {
		return err
	}

	receipt, err := s.adapter.Submit(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.fail(ctx, draft.ID, mapAdapterError(err))
	}

	if err = s.drafts.MarkSynced(ctx, draft.ID); err != nil {
		log.Err(err).Msg("draft accepted by server but could not be removed locally")
		return err
	}

	log.Info().
		Bool("duplicate", receipt.Duplicate).
		Time("received_at", receipt.ReceivedAt).
		Msg("draft submitted")

	return nil
}

func (s *draftSyncService) buildRequest(ctx context.Context, draft models.Draft) (models.SubmissionRequest, error) {
	photos := make([]models.SubmissionPhoto, 0, len(draft.PhotoRefs))
	for _, ref := range draft.PhotoRefs {
		data, err := s.drafts.PhotoData(ctx, ref)
		if err != nil {
			return models.SubmissionRequest{}, fmt.Errorf("load photo %s: %w", ref.ID, err)
		}
		photos = append(photos, models.SubmissionPhoto{PhotoRef: ref, Data: data})
	}

	return models.SubmissionRequest{
		DraftID:    draft.ID,
		Type:       draft.Type,
		Payload:    draft.Payload,
		References: draft.References,
		AgentID:    draft.AgentID,
		CreatedAt:  draft.CreatedAt,
		UpdatedAt:  draft.UpdatedAt,
		Photos:     photos,
	}, nil
}

// fail records cause on the draft and returns it.
func (s *draftSyncService) fail(ctx context.Context, id string, cause error) error {
	s.logger.Warn().Err(cause).
		Str("func", "draftSyncService.fail").
		Str("draft_id", id).
		Msg("draft submission failed")

	if _, err := s.drafts.MarkSyncFailed(ctx, id, cause.Error()); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

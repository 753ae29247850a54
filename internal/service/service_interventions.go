package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/store"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
)

type interventionService struct {
	repository store.InterventionRepository
	clock      utils.Clock

	logger *logger.Logger
}

func NewInterventionService(repository store.InterventionRepository, clock utils.Clock, logger *logger.Logger) InterventionService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &interventionService{repository: repository, clock: clock, logger: logger}
}

// Submit stamps the submission with the authenticated agent and the receive
// time, then stores it once per draft id. The payload is stored as sent.
func (s *interventionService) Submit(ctx context.Context, agent models.Agent, req models.SubmissionRequest) (models.SubmissionReceipt, error) {
	if req.DraftID == "" {
		return models.SubmissionReceipt{}, fmt.Errorf("%w: empty draft id", ErrInvalidSubmission)
	}
	if !req.Type.Valid() {
		return models.SubmissionReceipt{}, fmt.Errorf("%w: unknown intervention type %q", ErrInvalidSubmission, req.Type)
	}
	if agent.ID == "" {
		return models.SubmissionReceipt{}, fmt.Errorf("%w: no agent", ErrInvalidSubmission)
	}

	intervention := models.Intervention{
		DraftID:    req.DraftID,
		Type:       req.Type,
		Payload:    req.Payload,
		References: req.References,
		AgentID:    agent.ID,
		PhotoCount: len(req.Photos),
		CreatedAt:  req.CreatedAt,
		ReceivedAt: s.clock.Now(),
	}
	for _, photo := range req.Photos {
		intervention.PhotoBytes += int64(len(photo.Data))
	}

	duplicate, err := s.repository.Save(ctx, intervention, req.Photos)
	if err != nil {
		return models.SubmissionReceipt{}, err
	}

	receipt := models.SubmissionReceipt{
		DraftID:    req.DraftID,
		ReceivedAt: intervention.ReceivedAt,
		Duplicate:  duplicate,
	}
	if duplicate {
		stored, err := s.repository.Get(ctx, req.DraftID)
		if err != nil {
			return models.SubmissionReceipt{}, err
		}
		receipt.ReceivedAt = stored.ReceivedAt
	}

	return receipt, nil
}

func (s *interventionService) Get(ctx context.Context, draftID string) (models.Intervention, error) {
	intervention, err := s.repository.Get(ctx, draftID)
	if errors.Is(err, store.ErrInterventionNotFound) {
		return models.Intervention{}, fmt.Errorf("%w: %s", ErrInterventionNotFound, draftID)
	}
	if err != nil {
		return models.Intervention{}, err
	}

	return intervention, nil
}

type interventionLoggingWrapper struct {
	next   InterventionService
	logger *logger.Logger
}

// NewInterventionLoggingWrapper returns a wrapper that logs every submission
// with its outcome and duration.
func NewInterventionLoggingWrapper(logger *logger.Logger) InterventionServiceWrapper {
	return &interventionLoggingWrapper{logger: logger}
}

func (w *interventionLoggingWrapper) Wrap(next InterventionService) InterventionService {
	return &interventionLoggingWrapper{next: next, logger: w.logger}
}

func (w *interventionLoggingWrapper) Submit(ctx context.Context, agent models.Agent, req models.SubmissionRequest) (models.SubmissionReceipt, error) {
	start := time.Now()
	receipt, err := w.next.Submit(ctx, agent, req)

	event := w.logger.Info()
	if err != nil {
		event = w.logger.Err(err)
	}
	event.
		Str("func", "InterventionService.Submit").
		Str("draft_id", req.DraftID).
		Str("agent_id", agent.ID).
		Int("photos", len(req.Photos)).
		Bool("duplicate", receipt.Duplicate).
		Dur("duration", time.Since(start)).
		Msg("submission handled")

	return receipt, err
}

func (w *interventionLoggingWrapper) Get(ctx context.Context, draftID string) (models.Intervention, error) {
	return w.next.Get(ctx, draftID)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/store"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
)

const photoContentTypeJPEG = "image/jpeg"

type draftStore struct {
	drafts  store.DraftRepository
	blobs   store.PhotoBlobStore
	storage *store.ClientStorages

	clock utils.Clock
	ids   IDGenerator
	locks *keyedMutex

	retention time.Duration
	maxPhotos int

	closeOnce sync.Once
	closeErr  error

	logger *logger.Logger
}

// NewDraftStore builds the draft store on top of the agent's storages. The
// store takes ownership of storages and releases them on Close.
func NewDraftStore(storages *store.ClientStorages, cfg config.Drafts, clock utils.Clock, logger *logger.Logger) DraftStore {
	if clock == nil {
		clock = utils.SystemClock{}
	}

	return &draftStore{
		drafts:    storages.DraftRepository,
		blobs:     storages.PhotoBlobStore,
		storage:   storages,
		clock:     clock,
		ids:       utils.NewUUIDGenerator(),
		locks:     newKeyedMutex(),
		retention: cfg.RetentionWindow,
		maxPhotos: cfg.MaxPhotos,
		logger:    logger,
	}
}

func (s *draftStore) Create(ctx context.Context, t models.InterventionType, payload models.Payload, refs models.References) (models.Draft, error) {
	if !t.Valid() {
		return models.Draft{}, fmt.Errorf("%w: unknown intervention type %q", ErrInvalidArgument, t)
	}
	ctx = context.WithoutCancel(ctx)

	now := s.clock.Now()
	draft := models.Draft{
		ID:         s.ids.Generate(),
		Type:       t,
		Payload:    payload.Clone(),
		References: refs,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.retention),
		SyncState:  models.LocalOnly,
		PhotoRefs:  []models.PhotoRef{},
		Version:    1,
	}
	if agent, ok := utils.GetAgentFromContext(ctx); ok {
		draft.AgentID = agent.ID
		draft.AgentName = agent.Name
	}

	if err := s.drafts.Insert(ctx, draft); err != nil {
		return models.Draft{}, s.mapStoreError("draftStore.Create", draft.ID, err)
	}

	s.logger.Debug().
		Str("func", "draftStore.Create").
		Str("draft_id", draft.ID).
		Str("intervention_type", string(t)).
		Msg("draft created")

	return draft, nil
}

func (s *draftStore) Update(ctx context.Context, id string, patch models.Payload) (models.Draft, error) {
	return s.mutate(ctx, "draftStore.Update", id, func(now time.Time, draft *models.Draft) error {
		if err := s.checkEditable(now, *draft); err != nil {
			return err
		}
		draft.Payload = draft.Payload.Merge(patch)
		return nil
	})
}

func (s *draftStore) AddPhoto(ctx context.Context, id string, photo models.PhotoBlob) (models.Draft, error) {
	if len(photo.Data) == 0 {
		return models.Draft{}, fmt.Errorf("%w: empty photo", ErrInvalidArgument)
	}
	if photo.ContentType == "" {
		photo.ContentType = photoContentTypeJPEG
	}

	var saved string
	draft, err := s.mutate(ctx, "draftStore.AddPhoto", id, func(now time.Time, draft *models.Draft) error {
		if err := s.checkEditable(now, *draft); err != nil {
			return err
		}
		if s.maxPhotos > 0 && len(draft.PhotoRefs) >= s.maxPhotos {
			return fmt.Errorf("%w: draft %s already holds %d photos", ErrLimitExceeded, id, len(draft.PhotoRefs))
		}

		ref := models.PhotoRef{
			ID:          s.ids.Generate(),
			Size:        int64(len(photo.Data)),
			ContentType: photo.ContentType,
			Width:       photo.Width,
			Height:      photo.Height,
			AddedAt:     now,
		}
		if err := s.blobs.Save(ctx, ref.ID, photo.Data); err != nil {
			return fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
		saved = ref.ID

		draft.PhotoRefs = append(draft.PhotoRefs, ref)
		return nil
	})
	if err != nil && saved != "" {
		// the row write failed after the blob landed
		s.dropBlobs(context.WithoutCancel(ctx), "draftStore.AddPhoto", id, saved)
	}

	return draft, err
}

func (s *draftStore) Get(ctx context.Context, id string) (models.Draft, error) {
	draft, err := s.Inspect(ctx, id)
	if err != nil {
		return models.Draft{}, err
	}
	if draft.Expired(s.clock.Now()) {
		return models.Draft{}, fmt.Errorf("%w: %s", ErrExpired, id)
	}

	return draft, nil
}

func (s *draftStore) Inspect(ctx context.Context, id string) (models.Draft, error) {
	if id == "" {
		return models.Draft{}, fmt.Errorf("%w: empty draft id", ErrInvalidArgument)
	}

	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return models.Draft{}, s.mapStoreError("draftStore.Inspect", id, err)
	}

	return draft, nil
}

func (s *draftStore) PhotoData(ctx context.Context, ref models.PhotoRef) ([]byte, error) {
	data, err := s.blobs.Load(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			return nil, fmt.Errorf("%w: photo %s", ErrNotFound, ref.ID)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return data, nil
}

func (s *draftStore) List(ctx context.Context) ([]models.Draft, error) {
	drafts, err := s.drafts.ListActive(ctx, s.clock.Now())
	if err != nil {
		s.logger.Err(err).
			Str("func", "draftStore.List").
			Msg("listing drafts failed, returning empty list")
		return []models.Draft{}, nil
	}

	return drafts, nil
}

func (s *draftStore) MarkSyncPending(ctx context.Context, id string) (models.Draft, error) {
	return s.mutate(ctx, "draftStore.MarkSyncPending", id, func(now time.Time, draft *models.Draft) error {
		if !draft.SyncState.Editable() {
			return s.transitionConflict(*draft, models.SyncPending)
		}
		if draft.Expired(now) {
			return fmt.Errorf("%w: %s", ErrExpired, id)
		}
		draft.SyncState = models.SyncPending
		draft.SyncFailureReason = nil
		return nil
	})
}

func (s *draftStore) MarkSynced(ctx context.Context, id string) error {
	ctx = context.WithoutCancel(ctx)
	unlock := s.locks.Lock(id)
	defer unlock()

	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return s.mapStoreError("draftStore.MarkSynced", id, err)
	}
	if draft.SyncState != models.SyncPending {
		return s.transitionConflict(draft, models.Synced)
	}

	if _, err = s.drafts.Delete(ctx, id); err != nil {
		return s.mapStoreError("draftStore.MarkSynced", id, err)
	}
	s.dropBlobs(ctx, "draftStore.MarkSynced", id, photoIDs(draft)...)

	s.logger.Info().
		Str("func", "draftStore.MarkSynced").
		Str("draft_id", id).
		Msg("draft synced and removed")

	return nil
}

func (s *draftStore) MarkSyncFailed(ctx context.Context, id string, reason string) (models.Draft, error) {
	return s.mutate(ctx, "draftStore.MarkSyncFailed", id, func(_ time.Time, draft *models.Draft) error {
		if draft.SyncState != models.SyncPending {
			return s.transitionConflict(*draft, models.SyncFailed)
		}
		draft.SyncState = models.SyncFailed
		draft.SyncFailureReason = &reason
		return nil
	})
}

func (s *draftStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	unlock := s.locks.Lock(id)
	defer unlock()

	draft, err := s.drafts.Get(ctx, id)
	if errors.Is(err, store.ErrDraftNotFound) {
		return nil
	}
	if err != nil {
		return s.mapStoreError("draftStore.Delete", id, err)
	}

	if _, err = s.drafts.Delete(ctx, id); err != nil {
		return s.mapStoreError("draftStore.Delete", id, err)
	}
	s.dropBlobs(ctx, "draftStore.Delete", id, photoIDs(draft)...)

	return nil
}

func (s *draftStore) Reap(ctx context.Context) (int, error) {
	ctx = context.WithoutCancel(ctx)

	removed, err := s.drafts.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, s.mapStoreError("draftStore.Reap", "", err)
	}

	for _, draft := range removed {
		s.dropBlobs(ctx, "draftStore.Reap", draft.ID, photoIDs(draft)...)
	}

	if len(removed) > 0 {
		s.logger.Info().
			Str("func", "draftStore.Reap").
			Int("removed", len(removed)).
			Msg("expired drafts reaped")
	}

	return len(removed), nil
}

func (s *draftStore) Close() error {
	s.closeOnce.Do(func() {
		if s.storage != nil {
			s.closeErr = s.storage.Close()
		}
	})
	return s.closeErr
}

// mutate loads the draft under its per-id lock, applies fn to a copy and
// writes the copy back guarded by the version stamp it was read with.
func (s *draftStore) mutate(ctx context.Context, fn string, id string, apply func(now time.Time, draft *models.Draft) error) (models.Draft, error) {
	if id == "" {
		return models.Draft{}, fmt.Errorf("%w: empty draft id", ErrInvalidArgument)
	}
	ctx = context.WithoutCancel(ctx)
	unlock := s.locks.Lock(id)
	defer unlock()

	current, err := s.drafts.Get(ctx, id)
	if err != nil {
		return models.Draft{}, s.mapStoreError(fn, id, err)
	}

	now := s.clock.Now()
	next := current.Clone()
	if err = apply(now, &next); err != nil {
		return models.Draft{}, err
	}

	next.UpdatedAt = now
	if next.UpdatedAt.Before(next.CreatedAt) {
		next.UpdatedAt = next.CreatedAt
	}
	next.Version = current.Version + 1

	if err = s.drafts.Replace(ctx, next, current.Version); err != nil {
		return models.Draft{}, s.mapStoreError(fn, id, err)
	}

	return next, nil
}

func (s *draftStore) checkEditable(now time.Time, draft models.Draft) error {
	if draft.Expired(now) {
		return fmt.Errorf("%w: %s", ErrExpired, draft.ID)
	}
	if !draft.SyncState.Editable() {
		return fmt.Errorf("%w: draft %s is %s", ErrConflict, draft.ID, draft.SyncState)
	}
	return nil
}

func (s *draftStore) transitionConflict(draft models.Draft, to models.SyncState) error {
	return fmt.Errorf("%w: draft %s cannot move from %s to %s", ErrConflict, draft.ID, draft.SyncState, to)
}

// mapStoreError translates repository errors into the store taxonomy and
// logs the ones that indicate a broken medium.
func (s *draftStore) mapStoreError(fn, id string, err error) error {
	switch {
	case errors.Is(err, store.ErrDraftNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	case errors.Is(err, store.ErrDraftVersionConflict), errors.Is(err, store.ErrDraftAlreadyExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}

	s.logger.Err(err).
		Str("func", fn).
		Str("draft_id", id).
		Msg("draft storage failure")

	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

// dropBlobs removes photo files of a draft whose row is already gone.
// Failures leave orphan files behind and are only logged.
func (s *draftStore) dropBlobs(ctx context.Context, fn, draftID string, ids ...string) {
	if len(ids) == 0 {
		return
	}
	if err := s.blobs.DeleteMany(ctx, ids...); err != nil {
		s.logger.Warn().Err(err).
			Str("func", fn).
			Str("draft_id", draftID).
			Strs("photo_ids", ids).
			Msg("failed to delete photo blobs")
	}
}

func photoIDs(draft models.Draft) []string {
	ids := make([]string, 0, len(draft.PhotoRefs))
	for _, ref := range draft.PhotoRefs {
		ids = append(ids, ref.ID)
	}
	return ids
}

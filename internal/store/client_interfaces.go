package store

import (
	"context"
	"time"

	"github.com/fleetzen/fleetzen/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// DraftRepository persists drafts as single rows. Every write replaces the
// whole record in one statement, so a reader never observes a partially
// updated draft.
type DraftRepository interface {
	// Insert stores a new draft. It fails with [ErrDraftAlreadyExists] when
	// the id is taken.
	Insert(ctx context.Context, draft models.Draft) error
	// Replace overwrites the stored draft if its version still equals
	// expectedVersion; draft.Version is written as the new stamp.
	// It fails with [ErrDraftNotFound] or [ErrDraftVersionConflict].
	Replace(ctx context.Context, draft models.Draft, expectedVersion int64) error
	// Get returns the stored draft regardless of expiry.
	Get(ctx context.Context, id string) (models.Draft, error)
	// ListActive returns drafts with ExpiresAt >= now, newest CreatedAt first.
	ListActive(ctx context.Context, now time.Time) ([]models.Draft, error)
	// Delete removes a draft and reports whether a row existed.
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteExpired removes every draft with ExpiresAt < now in one
	// transaction and returns the removed records.
	DeleteExpired(ctx context.Context, now time.Time) ([]models.Draft, error)
}

// PhotoBlobStore keeps compressed photo bytes outside the database, keyed by
// photo id.
type PhotoBlobStore interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids ...string) error
}

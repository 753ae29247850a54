package service

import (
	"context"
	"io"

	"github.com/fleetzen/fleetzen/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// DraftStore is the agent's durable store of intervention drafts. It is the
// only owner of the draft namespace; callers never see storage handles.
//
// Writes to one id are serialized and either complete fully or not at all,
// even when ctx is cancelled mid-call. Writes on different ids run in
// parallel.
type DraftStore interface {
	// Create allocates a new local-only draft. The payload may be empty or
	// partial; it is not validated here. Returns [ErrInvalidArgument] for an
	// unknown intervention type.
	Create(ctx context.Context, t models.InterventionType, payload models.Payload, refs models.References) (models.Draft, error)

	// Update shallow-merges patch into the stored payload and stamps
	// UpdatedAt. ExpiresAt never moves. Returns [ErrNotFound], [ErrExpired]
	// or [ErrConflict] for a draft that is sync-pending.
	Update(ctx context.Context, id string, patch models.Payload) (models.Draft, error)

	// AddPhoto stores an already compressed photo and appends its reference.
	// Returns [ErrLimitExceeded] once the draft holds the configured maximum,
	// plus the same errors as Update.
	AddPhoto(ctx context.Context, id string, photo models.PhotoBlob) (models.Draft, error)

	// Get returns the draft, or [ErrExpired] once its retention window has
	// lapsed, or [ErrNotFound].
	Get(ctx context.Context, id string) (models.Draft, error)

	// Inspect returns the stored record without any expiry check.
	Inspect(ctx context.Context, id string) (models.Draft, error)

	// PhotoData returns the compressed bytes of one attached photo.
	PhotoData(ctx context.Context, ref models.PhotoRef) ([]byte, error)

	// List returns drafts that have not expired, newest first. A storage
	// failure yields an empty list and is only logged.
	List(ctx context.Context) ([]models.Draft, error)

	// MarkSyncPending moves a local-only or sync-failed draft to
	// sync-pending and clears any failure reason.
	MarkSyncPending(ctx context.Context, id string) (models.Draft, error)

	// MarkSynced removes a sync-pending draft and its photos once the
	// backend confirmed it.
	MarkSynced(ctx context.Context, id string) error

	// MarkSyncFailed moves a sync-pending draft to sync-failed and records
	// reason.
	MarkSyncFailed(ctx context.Context, id string, reason string) (models.Draft, error)

	// Delete removes the draft and its photos. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Reap removes every expired draft regardless of its sync state and
	// returns how many were removed. Reads never reap.
	Reap(ctx context.Context) (int, error)

	// Close releases the storage. The store must not be used afterwards.
	Close() error
}

// PhotoProcessor turns a raw camera image into the compressed form kept on
// the device.
type PhotoProcessor interface {
	// Process decodes r, applies the EXIF orientation, downsizes the image
	// to the configured bound and re-encodes it as JPEG. Undecodable input
	// yields [ErrInvalidArgument].
	Process(ctx context.Context, r io.Reader) (models.PhotoBlob, error)
}

// DraftSyncService hands drafts over to the intake server.
type DraftSyncService interface {
	// SyncPending submits every eligible draft: local-only drafts that have
	// not expired and sync-pending drafts left behind by an interrupted run.
	// Per-draft failures are recorded on the draft and counted in the
	// report; the returned error is reserved for failures of the pass
	// itself.
	SyncPending(ctx context.Context) (models.SyncReport, error)

	// Retry resubmits one sync-failed draft. Returns [ErrConflict] for a
	// draft in any other state.
	Retry(ctx context.Context, id string) error
}

// ConnectivityMonitor tracks whether the intake server is reachable.
type ConnectivityMonitor interface {
	// Online reports the last observed state.
	Online() bool

	// Check probes the server once and updates the state.
	Check(ctx context.Context) bool

	// Subscribe returns a channel that receives a value on every
	// offline to online transition, and a function that cancels the
	// subscription.
	Subscribe() (<-chan struct{}, func())

	// Run probes at the configured interval until ctx is done.
	Run(ctx context.Context) error
}

// ClientJob is a background loop run by the agent daemon.
type ClientJob interface {
	Run(ctx context.Context) error
}

// IDGenerator issues unique draft and photo identifiers.
type IDGenerator interface {
	Generate() string
}

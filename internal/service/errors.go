package service

import "errors"

// Draft store error taxonomy. Every error returned by [DraftStore] wraps
// exactly one of these, so callers branch with [errors.Is].
var (
	// ErrInvalidArgument marks malformed input such as an unknown
	// intervention type or an empty photo.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned for ids that do not name a stored draft.
	ErrNotFound = errors.New("draft not found")

	// ErrExpired is returned when the draft's retention window has lapsed.
	ErrExpired = errors.New("draft expired")

	// ErrLimitExceeded is returned when a draft already holds the maximum
	// number of photos.
	ErrLimitExceeded = errors.New("photo limit exceeded")

	// ErrConflict is returned for transitions the sync state machine does
	// not allow, including edits of a draft that is being submitted.
	ErrConflict = errors.New("draft state conflict")

	// ErrStorageFailure wraps any failure of the underlying medium. Writes
	// surface it to the caller; List degrades to an empty result.
	ErrStorageFailure = errors.New("storage failure")
)

// Sync and intake errors.
var (
	// ErrServerUnreachable is returned when the intake server cannot be
	// contacted at all.
	ErrServerUnreachable = errors.New("intake server unreachable")

	// ErrSubmissionRejected is returned when the intake server answered but
	// refused the submission.
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrInterventionNotFound is returned by the intake service for unknown
	// draft ids.
	ErrInterventionNotFound = errors.New("intervention not found")

	// ErrInvalidSubmission is returned by the intake service for requests
	// missing a draft id or agent.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrTokenIsExpiredOrInvalid is returned when a session token fails
	// verification.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repositories and blob stores. Callers match
// them with [errors.Is].
var (
	// ErrDraftNotFound is returned when no draft row has the requested id.
	ErrDraftNotFound = errors.New("draft was not found")

	// ErrDraftAlreadyExists is returned when an insert collides with an
	// existing draft id.
	ErrDraftAlreadyExists = errors.New("draft already exists")

	// ErrDraftVersionConflict is returned when a replace carries a version
	// stamp that no longer matches the stored row.
	ErrDraftVersionConflict = errors.New("draft version conflict occurred")

	// ErrBlobNotFound is returned when a photo blob file is missing.
	ErrBlobNotFound = errors.New("photo blob was not found")

	// ErrInvalidBlobID is returned for blob ids that cannot be used as a
	// file name inside the blob directory.
	ErrInvalidBlobID = errors.New("invalid photo blob id")

	// ErrInterventionNotFound is returned by the intake repository when no
	// intervention has the requested draft id.
	ErrInterventionNotFound = errors.New("intervention was not found")
)

// Low-level database errors wrapped by repository methods when a statement
// fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when squirrel fails to render a query.
	ErrBuildingSQLQuery = errors.New("error building SQL query")

	// ErrExecutingQuery wraps a failed Exec/Query call.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRow wraps a failed Scan of a result row.
	ErrScanningRow = errors.New("error scanning row")

	// ErrDecodingRecord wraps a JSON column that could not be decoded.
	ErrDecodingRecord = errors.New("error decoding stored record")

	// ErrStorageBusy marks a failure the database classified as transient
	// (locked file, lost connection). The store never retries on its own.
	ErrStorageBusy = errors.New("storage is busy")
)

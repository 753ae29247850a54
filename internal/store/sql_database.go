package store

import (
	"database/sql"
	"fmt"

	"github.com/fleetzen/fleetzen/internal/logger"
)

// ErrorClassification tells whether a failed database operation may succeed
// if attempted again.
type ErrorClassification int

const (
	// NonRetryable is the default classification for unrecognised errors,
	// constraint violations, syntax errors and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable marks transient failures such as a locked database or a lost
	// connection.
	Retryable
)

// ErrorClassificator maps a driver error to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB wraps *sql.DB together with the classifier of its driver.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// wrapDriverError annotates err with sentinel so callers can match it, and
// with [ErrStorageBusy] when the driver reports a transient failure.
func (db *DB) wrapDriverError(sentinel error, err error) error {
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w: %w", sentinel, ErrStorageBusy, err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

package store

import (
	"context"
	"fmt"

	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
)

// ClientStorages groups the agent's persistence: the SQLite draft table and
// the photo blob directory.
type ClientStorages struct {
	DraftRepository DraftRepository
	PhotoBlobStore  PhotoBlobStore

	db *DB
}

// NewClientStorages opens the SQLite file named by cfg.DB.DSN, applies the
// schema and prepares the blob directory.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.MigrateClient(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	blobs, err := NewFilePhotoBlobStore(cfg.BlobsDir, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ClientStorages{
		DraftRepository: NewDraftRepository(db, logger),
		PhotoBlobStore:  blobs,
		db:              db,
	}, nil
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

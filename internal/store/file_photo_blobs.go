package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fleetzen/fleetzen/internal/logger"
)

const blobFileExt = ".blob"

// filePhotoBlobStore keeps one file per photo inside dir. Files are written
// to a temporary name and renamed into place, so a crash leaves either the
// previous state or the complete blob.
type filePhotoBlobStore struct {
	dir    string
	logger *logger.Logger
}

// NewFilePhotoBlobStore creates dir if needed and returns a [PhotoBlobStore]
// rooted there.
func NewFilePhotoBlobStore(dir string, logger *logger.Logger) (PhotoBlobStore, error) {
	if dir == "" {
		return nil, errors.New("photo blob directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create photo blob directory: %w", err)
	}

	return &filePhotoBlobStore{dir: dir, logger: logger}, nil
}

func (f *filePhotoBlobStore) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlobID, id)
	}
	return filepath.Join(f.dir, id+blobFileExt), nil
}

func (f *filePhotoBlobStore) Save(ctx context.Context, id string, data []byte) error {
	log := logger.FromContext(ctx)

	target, err := f.path(id)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+id+".*.tmp")
	if err != nil {
		log.Err(err).Str("func", "filePhotoBlobStore.Save").Str("photo_id", id).Msg("failed to create temp file")
		return fmt.Errorf("create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err = tmp.Write(data); err != nil {
		cleanup()
		log.Err(err).Str("func", "filePhotoBlobStore.Save").Str("photo_id", id).Msg("failed to write blob")
		return fmt.Errorf("write blob: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync blob: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close blob: %w", err)
	}

	if err = os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		log.Err(err).Str("func", "filePhotoBlobStore.Save").Str("photo_id", id).Msg("failed to move blob into place")
		return fmt.Errorf("rename blob: %w", err)
	}

	return nil
}

func (f *filePhotoBlobStore) Load(ctx context.Context, id string) ([]byte, error) {
	target, err := f.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, id)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "filePhotoBlobStore.Load").Str("photo_id", id).Msg("failed to read blob")
		return nil, fmt.Errorf("read blob: %w", err)
	}

	return data, nil
}

func (f *filePhotoBlobStore) Delete(ctx context.Context, id string) error {
	target, err := f.path(id)
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).Err(err).Str("func", "filePhotoBlobStore.Delete").Str("photo_id", id).Msg("failed to remove blob")
		return fmt.Errorf("remove blob: %w", err)
	}

	return nil
}

// DeleteMany removes every id and joins the failures.
func (f *filePhotoBlobStore) DeleteMany(ctx context.Context, ids ...string) error {
	var errs []error
	for _, id := range ids {
		if err := f.Delete(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

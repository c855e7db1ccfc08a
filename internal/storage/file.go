package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/logger"
)

// FileStore keeps the whole collection in a single file.
type FileStore struct {
	path  string
	codec Codec
	log   *logger.Logger
	now   func() time.Time
}

// NewFileStore creates a store for path. The file is not touched until
// Load or Save.
func NewFileStore(path string, codec Codec, log *logger.Logger) *FileStore {
	return &FileStore{path: path, codec: codec, log: log, now: time.Now}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the collection. A missing file is an empty collection; an
// unreadable or corrupt one is logged and also treated as empty.
func (s *FileStore) Load() []domain.Card {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("card file does not exist yet")
		} else {
			s.log.Warn("failed to read card file, starting empty", "error", err)
		}
		return []domain.Card{}
	}

	cards, err := s.codec.Unmarshal(data)
	if err != nil {
		s.log.Warn("corrupt card file, starting empty", "error", err)
		return []domain.Card{}
	}
	return repair(cards, s.now(), s.log)
}

// Save writes the collection to a temporary file in the same directory and
// renames it over the target, so a failed save never leaves a partial file.
func (s *FileStore) Save(cards []domain.Card) error {
	data, err := s.codec.Marshal(cards)
	if err != nil {
		return fmt.Errorf("%w: failed to encode cards: %w", domain.ErrStorageWrite, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %w", domain.ErrStorageWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", domain.ErrStorageWrite, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: failed to write %s: %w", domain.ErrStorageWrite, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: failed to sync %s: %w", domain.ErrStorageWrite, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to close %s: %w", domain.ErrStorageWrite, tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to chmod %s: %w", domain.ErrStorageWrite, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: failed to replace %s: %w", domain.ErrStorageWrite, s.path, err)
	}

	s.log.Debug("saved cards", "count", len(cards))
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}

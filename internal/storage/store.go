package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/logger"
)

// Store is the durable copy of the card collection.
//
// Load never fails: a missing or unreadable source yields an empty
// collection. Save replaces the whole collection; on failure the previous
// durable content is left intact and the error wraps domain.ErrStorageWrite.
type Store interface {
	Load() []domain.Card
	Save(cards []domain.Card) error
	Close() error
}

var (
	_ Store           = (*FileStore)(nil)
	_ Store           = (*SQLiteStore)(nil)
	_ HistoryRecorder = (*SQLiteStore)(nil)
)

// HistoryRecorder is implemented by stores that keep a review history.
type HistoryRecorder interface {
	RecordReviews(logs []domain.ReviewLog) error
	History(cardID string) ([]domain.ReviewLog, error)
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// NewID returns a new random card identifier.
func NewID() string {
	return uuid.NewString()
}

// DetectBackend picks a backend from the file extension of path.
func DetectBackend(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return BackendYAML
	case ".db", ".sqlite", ".sqlite3":
		return BackendSQLite
	default:
		return BackendJSON
	}
}

// Open returns the store for backend at path. An empty backend is
// detected from the path.
func Open(backend, path string, log *logger.Logger) (Store, error) {
	if backend == "" {
		backend = DetectBackend(path)
	}
	log = log.With("backend", backend, "path", path)
	switch backend {
	case BackendJSON:
		return NewFileStore(path, JSONCodec{}, log), nil
	case BackendYAML:
		return NewFileStore(path, YAMLCodec{}, log), nil
	case BackendSQLite:
		return OpenSQLite(path, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// repair enforces the card invariants on freshly loaded records: missing
// or duplicate ids get a new id, scheduling fields are clamped to their
// valid ranges and tags are normalized. Cards are otherwise kept as stored.
func repair(cards []domain.Card, now time.Time, log *logger.Logger) []domain.Card {
	seen := make(map[string]bool, len(cards))
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.ID == "" || seen[c.ID] {
			old := c.ID
			c.ID = NewID()
			log.Warn("reassigned card id", "old_id", old, "new_id", c.ID)
		}
		seen[c.ID] = true

		switch {
		case c.EF == 0:
			c.EF = domain.DefaultEF
		case c.EF < domain.MinEF:
			c.EF = domain.MinEF
		}
		c.Reps = max(c.Reps, 0)
		c.IntervalDays = max(c.IntervalDays, 0)
		if c.Due.IsZero() {
			log.Warn("card has no usable due date, due now", "id", c.ID)
			c.Due = now
		}
		c.Due = c.Due.UTC()
		c.SetTags(c.Tags)
		out = append(out, c)
	}
	return out
}

package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/logger"
)

// SQLiteStore keeps the collection and the review history in a SQLite file.
type SQLiteStore struct {
	conn *sql.DB
	log  *logger.Logger
	now  func() time.Time
}

// OpenSQLite creates a new database connection and ensures the schema is up to date.
func OpenSQLite(dsn string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{conn: db, log: log, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Load reads every card in stored order. A failed query yields an empty
// collection; a row that cannot be scanned is logged and skipped, and bad
// tags or due dates are reset by repair.
func (s *SQLiteStore) Load() []domain.Card {
	rows, err := s.conn.Query(`
		SELECT id, front, back, notes, tags, ef, reps, interval_days, due
		FROM cards ORDER BY position
	`)
	if err != nil {
		s.log.Warn("failed to query cards, starting empty", "error", err)
		return []domain.Card{}
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := s.scanCard(rows)
		if err != nil {
			s.log.Warn("failed to scan card row, skipping it", "error", err)
			continue
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn("failed to iterate cards", "loaded", len(cards), "error", err)
	}
	return repair(cards, s.now(), s.log)
}

func (s *SQLiteStore) scanCard(rows *sql.Rows) (domain.Card, error) {
	var c domain.Card
	var tags, due string
	if err := rows.Scan(&c.ID, &c.Front, &c.Back, &c.Notes, &tags, &c.EF, &c.Reps, &c.IntervalDays, &due); err != nil {
		return c, err
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		s.log.Warn("bad tags, clearing them", "id", c.ID, "error", err)
		c.Tags = nil
	}
	if t, err := parseTimestamp(due); err != nil {
		s.log.Warn("bad due date", "id", c.ID, "error", err)
	} else {
		c.Due = t
	}
	return c, nil
}

// Save replaces the stored collection inside a single transaction.
func (s *SQLiteStore) Save(cards []domain.Card) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", domain.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards`); err != nil {
		return fmt.Errorf("%w: failed to clear cards: %w", domain.ErrStorageWrite, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cards (id, position, front, back, notes, tags, ef, reps, interval_days, due)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %w", domain.ErrStorageWrite, err)
	}
	defer stmt.Close()

	for i, c := range cards {
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("%w: failed to encode tags for card %s: %w", domain.ErrStorageWrite, c.ID, err)
		}
		if _, err := stmt.Exec(
			c.ID,
			i,
			c.Front,
			c.Back,
			c.Notes,
			string(tagsJSON),
			c.EF,
			c.Reps,
			c.IntervalDays,
			c.Due.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("%w: failed to insert card %s: %w", domain.ErrStorageWrite, c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %w", domain.ErrStorageWrite, err)
	}
	s.log.Debug("saved cards", "count", len(cards))
	return nil
}

// RecordReviews appends review events to the history.
func (s *SQLiteStore) RecordReviews(logs []domain.ReviewLog) error {
	if len(logs) == 0 {
		return nil
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", domain.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	for _, l := range logs {
		if _, err := tx.Exec(`
			INSERT INTO reviews (card_id, reviewed_at, quality, interval_days, ef)
			VALUES (?, ?, ?, ?, ?)
		`,
			l.CardID,
			l.Timestamp.UTC().Format(time.RFC3339Nano),
			l.Quality,
			l.IntervalDays,
			l.EF,
		); err != nil {
			return fmt.Errorf("%w: failed to insert review for card %s: %w", domain.ErrStorageWrite, l.CardID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit reviews: %w", domain.ErrStorageWrite, err)
	}
	return nil
}

// History returns the reviews of a card, oldest first.
func (s *SQLiteStore) History(cardID string) ([]domain.ReviewLog, error) {
	rows, err := s.conn.Query(`
		SELECT card_id, reviewed_at, quality, interval_days, ef
		FROM reviews WHERE card_id = ? ORDER BY id
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for card %s: %w", cardID, err)
	}
	defer rows.Close()

	var logs []domain.ReviewLog
	for rows.Next() {
		var l domain.ReviewLog
		var ts string
		if err := rows.Scan(&l.CardID, &ts, &l.Quality, &l.IntervalDays, &l.EF); err != nil {
			return nil, fmt.Errorf("failed to scan review row for card %s: %w", cardID, err)
		}
		if l.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, fmt.Errorf("failed to parse review time for card %s: %w", cardID, err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

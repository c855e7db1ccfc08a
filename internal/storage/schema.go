package storage

const schema = `
-- The 'cards' table stores every card with its SM-2 scheduling state.
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]', -- JSON array of labels
    ef REAL NOT NULL DEFAULT 2.5,
    reps INTEGER NOT NULL DEFAULT 0,
    interval_days INTEGER NOT NULL DEFAULT 0,
    due TEXT NOT NULL -- RFC 3339 timestamp
);

-- The 'reviews' table keeps one row per review, independent of card deletion.
CREATE TABLE IF NOT EXISTS reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    card_id TEXT NOT NULL,
    reviewed_at TEXT NOT NULL,
    quality INTEGER NOT NULL,
    interval_days INTEGER NOT NULL,
    ef REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reviews_card_id ON reviews(card_id);
`

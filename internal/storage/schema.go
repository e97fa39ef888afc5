package storage

const schema = `
-- One row per saved item. seq preserves insertion order for listing.
CREATE TABLE IF NOT EXISTS records (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id TEXT NOT NULL UNIQUE,
    saved_at INTEGER NOT NULL,
    next_review INTEGER NOT NULL,
    interval_days INTEGER NOT NULL DEFAULT 0,
    ease_factor REAL NOT NULL,
    repetitions INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS records_next_review ON records(next_review);
`

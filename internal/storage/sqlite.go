package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/conorfennell/zeal/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const recordColumns = `item_id, saved_at, next_review, interval_days, ease_factor, repetitions`

// SQLiteStore keeps one row per record in a SQLite database.
type SQLiteStore struct {
	conn        *sql.DB
	initialEase float64
	logger      *slog.Logger
}

// OpenSQLite opens the database at dsn and ensures the schema is up to date.
// A database file that SQLite reports as corrupt is moved aside and replaced
// with an empty one.
func OpenSQLite(dsn string, opts Options) (*SQLiteStore, error) {
	logger := opts.logger()

	db, err := openDB(dsn)
	if err != nil && isCorrupt(err) {
		aside, mvErr := moveAside(dsn, time.Now())
		if mvErr != nil {
			return nil, errors.Join(err, mvErr)
		}
		logger.Warn("Database is corrupt, starting empty", "path", dsn, "moved_to", aside, "error", err)
		db, err = openDB(dsn)
	}
	if err != nil {
		return nil, err
	}

	return &SQLiteStore{
		conn:        db,
		initialEase: opts.initialEase(),
		logger:      logger,
	}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

// isCorrupt reports whether err is SQLite saying the file is damaged or is
// not a database at all.
func isCorrupt(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
		return true
	}
	return false
}

// moveAside renames the database file at path, and any journal files next to
// it, to path.corrupt-<unix ms>. Only regular files are moved.
func moveAside(path string, now time.Time) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat corrupt database: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("corrupt database %s is not a regular file", path)
	}

	aside := fmt.Sprintf("%s.corrupt-%d", path, now.UnixMilli())
	if err := os.Rename(path, aside); err != nil {
		return "", fmt.Errorf("failed to move corrupt database aside: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		if _, err := os.Stat(path + suffix); err == nil {
			if err := os.Rename(path+suffix, aside+suffix); err != nil {
				return "", fmt.Errorf("failed to move %s aside: %w", path+suffix, err)
			}
		}
	}
	return aside, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) ListAll() []domain.ReviewRecord {
	recs, err := s.query(`SELECT ` + recordColumns + ` FROM records ORDER BY seq`)
	if err != nil {
		s.logger.Warn("Failed to list records, treating as empty", "error", err)
		return nil
	}
	return recs
}

func (s *SQLiteStore) DueAsOf(now time.Time) []domain.ReviewRecord {
	recs, err := s.query(`SELECT `+recordColumns+` FROM records WHERE next_review <= ? ORDER BY seq`, now.UnixMilli())
	if err != nil {
		s.logger.Warn("Failed to list due records, treating as empty", "error", err)
		return nil
	}
	return recs
}

func (s *SQLiteStore) query(q string, args ...any) ([]domain.ReviewRecord, error) {
	rows, err := s.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var recs []domain.ReviewRecord
	for rows.Next() {
		var r domain.ReviewRecord
		if err := rows.Scan(
			&r.ItemID,
			&r.SavedAt,
			&r.NextReview,
			&r.Interval,
			&r.EaseFactor,
			&r.Repetitions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return recs, nil
}

func (s *SQLiteStore) Exists(itemID string) bool {
	var one int
	err := s.conn.QueryRow(`SELECT 1 FROM records WHERE item_id = ?`, itemID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		s.logger.Warn("Failed to look up record", "item_id", itemID, "error", err)
		return false
	}
	return true
}

// Add inserts a fresh record. An existing row for itemID is left untouched.
func (s *SQLiteStore) Add(itemID string, now time.Time) error {
	r := domain.NewRecord(itemID, now, s.initialEase)
	_, err := s.conn.Exec(`
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO NOTHING
	`,
		r.ItemID,
		r.SavedAt,
		r.NextReview,
		r.Interval,
		r.EaseFactor,
		r.Repetitions,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", itemID, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(itemID string) error {
	if _, err := s.conn.Exec(`DELETE FROM records WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", itemID, err)
	}
	return nil
}

// Apply updates the scheduling columns of itemID. saved_at is never rewritten.
func (s *SQLiteStore) Apply(itemID string, rec domain.ReviewRecord) error {
	_, err := s.conn.Exec(`
		UPDATE records
		SET next_review = ?, interval_days = ?, ease_factor = ?, repetitions = ?
		WHERE item_id = ?
	`,
		rec.NextReview,
		rec.Interval,
		rec.EaseFactor,
		rec.Repetitions,
		itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", itemID, err)
	}
	return nil
}

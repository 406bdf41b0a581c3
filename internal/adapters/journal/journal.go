// Package journal records stream values in SQLite so that a counter can be
// restored and its history queried.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianly1003/relaykit/internal/stream"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// schemaVersion is incremented when the entries table changes shape.
const schemaVersion = 1

// Entry is one recorded value.
type Entry struct {
	ID         int64     `json:"id"`
	Stream     string    `json:"stream"`
	Value      int       `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Journal is a SQLite-backed value log.
type Journal struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("journal opened")

	return &Journal{db: db, path: path, now: time.Now}, nil
}

// createSchema creates the database schema, handling version migrations.
func createSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS metadata (key TEXT PRIMARY KEY, value TEXT)`)
	if err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'")
	if err := row.Scan(&currentVersion); err != nil {
		// No version found, this is a new database
		currentVersion = 0
	}

	if currentVersion != 0 && currentVersion < schemaVersion {
		log.Info().
			Int("old_version", currentVersion).
			Int("new_version", schemaVersion).
			Msg("journal schema changed, dropping old entries")
		_, _ = db.Exec("DROP TABLE IF EXISTS entries")
	}

	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stream TEXT NOT NULL,
			value INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_stream_id ON entries(stream, id DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	_, err = db.Exec("INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

// Path returns the database file.
func (j *Journal) Path() string {
	return j.path
}

// Record appends value to the named stream's log.
func (j *Journal) Record(name string, value int) (Entry, error) {
	at := j.now().UTC()
	res, err := j.db.Exec(
		"INSERT INTO entries (stream, value, recorded_at) VALUES (?, ?, ?)",
		name, value, at.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record %s=%d: %w", name, value, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, err
	}
	return Entry{ID: id, Stream: name, Value: value, RecordedAt: at}, nil
}

// Latest returns the most recent value of the named stream. ok is false when
// nothing has been recorded.
func (j *Journal) Latest(name string) (value int, ok bool, err error) {
	row := j.db.QueryRow("SELECT value FROM entries WHERE stream = ? ORDER BY id DESC LIMIT 1", name)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return value, true, nil
}

// History returns up to limit entries of the named stream, newest first.
func (j *Journal) History(name string, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}

	rows, err := j.db.Query(
		"SELECT id, stream, value, recorded_at FROM entries WHERE stream = ? ORDER BY id DESC LIMIT ?",
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.ID, &e.Stream, &e.Value, &at); err != nil {
			return nil, err
		}
		e.RecordedAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("entry %d has a bad timestamp: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Attach records every value src emits under name until the returned token
// is disposed. A value equal to the one last recorded for name is skipped,
// so attaching to a replaying stream does not duplicate the restored value.
func (j *Journal) Attach(name string, src stream.Observable[int]) *stream.Token {
	last, have, err := j.Latest(name)
	if err != nil {
		log.Warn().Err(err).Str("stream", name).Msg("failed to read latest journal entry")
	}

	return src.SubscribeNext(func(v int) {
		if have && v == last {
			return
		}
		if _, err := j.Record(name, v); err != nil {
			log.Warn().Err(err).Str("stream", name).Msg("failed to journal value")
			return
		}
		last, have = v, true
	})
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

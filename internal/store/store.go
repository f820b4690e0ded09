package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// ErrNotDurable is returned when a write reached the in-memory collection
// but could not be persisted.
var ErrNotDurable = errors.New("change not persisted")

// ErrInvalidRecord is returned by Append for records that break the
// duration or label invariants.
var ErrInvalidRecord = errors.New("invalid record")

// ErrCorrupt is returned by Open when the database file was unusable and a
// fresh store was substituted for it.
var ErrCorrupt = errors.New("database unusable")

// Store is the append-only log of time blocks plus the settings table.
// It keeps an in-memory copy of the log, most recent first.
type Store struct {
	db   *sql.DB
	logs []TimeBlockRecord
}

// New opens (or creates) the SQLite database at dbPath, runs migrations and
// loads the log. A log that cannot be read leaves the store empty; the load
// error is returned alongside a usable store.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.Load(); err != nil {
		return s, err
	}
	return s, nil
}

// Open is New for callers that must keep running. A database file that
// cannot be opened is renamed to <dbPath>.corrupt-<unix seconds> and a new
// one is created in its place. If that fails as well the store lives in
// memory only. Either way the returned error wraps ErrCorrupt and the store
// is usable.
func Open(dbPath string) (*Store, error) {
	s, err := New(dbPath)
	if s != nil || dbPath == ":memory:" {
		return s, err
	}
	openErr := err

	backup := fmt.Sprintf("%s.corrupt-%d", dbPath, time.Now().Unix())
	if _, statErr := os.Stat(dbPath); statErr == nil {
		if err := os.Rename(dbPath, backup); err == nil {
			for _, suffix := range []string{"-wal", "-shm"} {
				os.Rename(dbPath+suffix, backup+suffix)
			}
			if fresh, _ := New(dbPath); fresh != nil {
				return fresh, fmt.Errorf("%w: %v; moved to %s", ErrCorrupt, openErr, backup)
			}
		}
	}

	s, err = NewMemory()
	if s == nil {
		return nil, fmt.Errorf("%w: %v; in-memory fallback: %v", ErrCorrupt, openErr, err)
	}
	return s, fmt.Errorf("%w: %w: %v; logs kept in memory only", ErrCorrupt, ErrNotDurable, openErr)
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS time_logs (
		seq             INTEGER PRIMARY KEY AUTOINCREMENT,
		id              TEXT NOT NULL UNIQUE,
		timestamp       INTEGER NOT NULL,
		duration        INTEGER NOT NULL CHECK (duration >= 1),
		category_id     TEXT NOT NULL DEFAULT '',
		category_label  TEXT NOT NULL,
		note            TEXT NOT NULL DEFAULT '',
		mode            TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON time_logs(timestamp);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('dayStartHour',          '9'),
		('dayEndHour',            '18'),
		('focusIntervalMinutes',  '30'),
		('recordIntervalMinutes', '30');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/timechunk/timechunk.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "timechunk", "timechunk.db"), nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS slots (
	name TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TEXT NOT NULL
);`

const (
	defaultSQLiteDir = ".beijshop"
	defaultSQLiteDB  = "beijshop.db"
)

// SQLiteConfig configures the SQLite-backed slot store.
type SQLiteConfig struct {
	DSN string
}

// SQLiteStore persists JSON slots in SQLite. It is the durable storage
// strategy: slots written here survive process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath returns the default SQLite path for CLI storage.
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: resolve user home: %w", err)
	}
	return filepath.Join(home, defaultSQLiteDir, defaultSQLiteDB), nil
}

// NewDefaultSQLiteStore creates a SQLite store at ~/.beijshop/beijshop.db.
func NewDefaultSQLiteStore() (*SQLiteStore, error) {
	path, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(SQLiteConfig{DSN: path})
}

// NewSQLiteStore opens (or creates) a SQLite-backed slot store.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("store: sqlite dsn is required")
	}

	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: sqlite open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: sqlite set WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: sqlite create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the JSON payload stored under key. A payload that is not
// valid JSON is deleted and reported absent.
func (s *SQLiteStore) Load(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.db == nil {
		return nil, false, errors.New("store: sqlite store is nil")
	}

	row := s.db.QueryRowContext(ctx, `
SELECT payload
FROM slots
WHERE name = ?`, key)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: sqlite load slot: %w", err)
	}

	if !json.Valid(payload) {
		_ = s.Clear(ctx, key)
		return nil, false, nil
	}
	return json.RawMessage(payload), true, nil
}

// Save serializes value and upserts it under key.
func (s *SQLiteStore) Save(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New("store: sqlite store is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("store: slot key is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode slot %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO slots (name, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key,
		payload,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: sqlite save slot %q: %w", key, err)
	}
	return nil
}

// Clear deletes the slot. Missing slots are not an error.
func (s *SQLiteStore) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New("store: sqlite store is nil")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, key); err != nil {
		return fmt.Errorf("store: sqlite clear slot %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

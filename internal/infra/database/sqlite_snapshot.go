package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/leadflow/crm-directory/internal/entity"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS crm_snapshots (
		storage_key TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)
`

// SQLiteSnapshotStore is the embedded backend: one row per storage key in
// a local database file.
type SQLiteSnapshotStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteSnapshotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create crm_snapshots: %w", err)
	}
	return &SQLiteSnapshotStore{db: db}, nil
}

func (s *SQLiteSnapshotStore) Load(ctx context.Context, key string) (*entity.Snapshot, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM crm_snapshots WHERE storage_key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeSnapshot([]byte(body))
}

func (s *SQLiteSnapshotStore) Save(ctx context.Context, key string, snap *entity.Snapshot) error {
	body, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO crm_snapshots (storage_key, payload, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (storage_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, key, string(body))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteSnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

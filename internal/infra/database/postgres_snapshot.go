package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leadflow/crm-directory/internal/entity"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS crm_snapshots (
		storage_key TEXT PRIMARY KEY,
		payload     JSONB NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresSnapshotStore keeps each snapshot as one JSONB row keyed by
// storage key.
type PostgresSnapshotStore struct {
	DB *sql.DB
}

func NewPostgresSnapshotStore(db *sql.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{DB: db}
}

// OpenPostgres connects through lib/pq and ensures the snapshot table.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSnapshotStore, error) {
	db, err := NewDBConnection("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := NewPostgresSnapshotStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (r *PostgresSnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create crm_snapshots: %w", err)
	}
	return nil
}

func (r *PostgresSnapshotStore) Load(ctx context.Context, key string) (*entity.Snapshot, error) {
	query := `SELECT payload FROM crm_snapshots WHERE storage_key = $1`

	var body []byte
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeSnapshot(body)
}

func (r *PostgresSnapshotStore) Save(ctx context.Context, key string, snap *entity.Snapshot) error {
	body, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO crm_snapshots (storage_key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (storage_key)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`
	if _, err := r.DB.ExecContext(ctx, query, key, string(body)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *PostgresSnapshotStore) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *PostgresSnapshotStore) Close() error {
	return r.DB.Close()
}

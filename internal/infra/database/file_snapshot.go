package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/leadflow/crm-directory/internal/entity"
)

// FileSnapshotStore writes one JSON file per key under Dir. Saves go
// through a temp file and a rename so a crash never leaves a torn file.
type FileSnapshotStore struct {
	Dir string
}

func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileSnapshotStore{Dir: dir}, nil
}

func (s *FileSnapshotStore) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

func (s *FileSnapshotStore) Load(ctx context.Context, key string) (*entity.Snapshot, error) {
	body, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, entity.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(body) == 0 {
		return nil, entity.ErrSnapshotNotFound
	}
	return decodeSnapshot(body)
}

func (s *FileSnapshotStore) Save(ctx context.Context, key string, snap *entity.Snapshot) error {
	body, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileSnapshotStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.Dir)
	}
	return nil
}

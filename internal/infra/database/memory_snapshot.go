package database

import (
	"context"
	"sync"

	"github.com/leadflow/crm-directory/internal/entity"
)

// MemorySnapshotStore keeps encoded snapshots in process memory. Nothing
// survives a restart.
type MemorySnapshotStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{data: make(map[string][]byte)}
}

func (s *MemorySnapshotStore) Load(ctx context.Context, key string) (*entity.Snapshot, error) {
	s.mu.Lock()
	body, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return nil, entity.ErrSnapshotNotFound
	}
	return decodeSnapshot(body)
}

func (s *MemorySnapshotStore) Save(ctx context.Context, key string, snap *entity.Snapshot) error {
	body, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = body
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStore) Ping(ctx context.Context) error {
	return nil
}

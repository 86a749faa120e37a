package database

import (
	"encoding/json"
	"fmt"

	"github.com/leadflow/crm-directory/internal/entity"
)

func encodeSnapshot(snap *entity.Snapshot) ([]byte, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return body, nil
}

func decodeSnapshot(body []byte) (*entity.Snapshot, error) {
	var snap entity.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}

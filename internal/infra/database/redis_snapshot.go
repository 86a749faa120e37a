package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/leadflow/crm-directory/internal/entity"
)

const redisKeyPrefix = "crm:snapshot:"

// RedisSnapshotStore keeps each snapshot as one string value under
// crm:snapshot:<key>, without expiry.
type RedisSnapshotStore struct {
	client *redis.Client
}

func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

func OpenRedis(ctx context.Context, url string) (*RedisSnapshotStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisSnapshotStore(client), nil
}

func redisKey(key string) string {
	return redisKeyPrefix + key
}

func (s *RedisSnapshotStore) Load(ctx context.Context, key string) (*entity.Snapshot, error) {
	body, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeSnapshot(body)
}

func (s *RedisSnapshotStore) Save(ctx context.Context, key string, snap *entity.Snapshot) error {
	body, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(key), body, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}

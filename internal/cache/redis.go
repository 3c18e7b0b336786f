// Package cache provides the redis-backed draft collection storage. Each
// client's collection is one JSON value, so a save replaces the whole
// snapshot atomically.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/viyahe/corptravel/config"
	"github.com/viyahe/corptravel/internal/draft"
)

const draftKeyPrefix = "drafts:"

type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(cfg config.RedisConfig) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (s *RedisStorage) Load(ctx context.Context, clientID string) (draft.StoredState, bool, error) {
	data, err := s.client.Get(ctx, draftKey(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return draft.StoredState{}, false, nil
		}
		return draft.StoredState{}, false, err
	}

	var state draft.StoredState
	if err := json.Unmarshal(data, &state); err != nil {
		return draft.StoredState{}, false, err
	}
	return state, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, clientID string, state draft.StoredState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKey(clientID), payload, 0).Err()
}

// Clients scans for persisted collections. SCAN keeps the reconciler from
// blocking redis the way KEYS would.
func (s *RedisStorage) Clients(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, draftKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), draftKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func draftKey(clientID string) string {
	return draftKeyPrefix + clientID
}

var _ draft.Storage = (*RedisStorage)(nil)

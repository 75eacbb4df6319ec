package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client   *redisv9.Client
	lifetime time.Duration
}

func NewRedisStore(client *redisv9.Client, lifetime time.Duration) *RedisStore {
	return &RedisStore{
		client:   client,
		lifetime: normalizeLifetime(lifetime),
	}
}

func (s *RedisStore) Create(ctx context.Context, data Data) (string, error) {
	id := newSessionID()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal session failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), payload, s.lifetime).Err(); err != nil {
		return "", fmt.Errorf("redis set session failed: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Data, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session failed: %w", err)
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &data, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Touch(ctx context.Context, id string) error {
	if err := s.client.Expire(ctx, s.key(id), s.lifetime).Err(); err != nil {
		return fmt.Errorf("redis touch session failed: %w", err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("auth:session:%s", id)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/birrama/careers/internal/wizard"
)

// RedisStore shares wizard state between API replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "wizard"
	}
	return &RedisStore{client: client, ttl: ttl, prefix: prefix}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":" + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*wizard.Wizard, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	w := wizard.New()
	if err := json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return w, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, w *wizard.Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) fileKey(id string) string {
	return s.prefix + ":file:" + id
}

func (s *RedisStore) PutFile(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, s.fileKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save pending file %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) GetFile(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.fileKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load pending file %s: %w", id, err)
	}
	return data, nil
}

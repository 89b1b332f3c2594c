package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/modela/identity-gateway/internal/core/domain"
)

const keyPrefix = "modela:"

// IdentityStore keeps identity records in Redis. Every write refreshes the
// record's expiry so it never outlives the token mirrored from it.
// Key format: modela:<key>
type IdentityStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityStore wraps client. A ttl of zero keeps records without expiry.
func NewIdentityStore(client *redis.Client, ttl time.Duration) *IdentityStore {
	return &IdentityStore{client: client, ttl: ttl}
}

func (s *IdentityStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrRecordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get identity record: %w", err)
	}
	return v, nil
}

func (s *IdentityStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set identity record: %w", err)
	}
	return nil
}

func (s *IdentityStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete identity record: %w", err)
	}
	return nil
}

func (s *IdentityStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *IdentityStore) key(k string) string {
	return keyPrefix + k
}

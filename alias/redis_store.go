package alias

import (
	"context"
	"fmt"

	"github.com/kbukum/autowire/redis"
)

// ClientSource yields a started Redis client. *redis.Component satisfies it,
// so the store follows the component's lifecycle.
type ClientSource interface {
	Client() *redis.Client
}

// RedisStore keeps the table under a single Redis key with no expiry.
type RedisStore struct {
	source ClientSource
	key    string
}

// NewRedisStore creates a store on the client provided by source.
func NewRedisStore(source ClientSource, key string) *RedisStore {
	return &RedisStore{source: source, key: key}
}

// Source returns the client source, typically a *redis.Component that must
// be started before the cache loads.
func (s *RedisStore) Source() ClientSource { return s.source }

// Key returns the Redis key holding the table.
func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) client() (*redis.Client, error) {
	c := s.source.Client()
	if c == nil {
		return nil, fmt.Errorf("redis client not started")
	}
	return c, nil
}

// Load reads the key. A missing key yields ErrStoreNotFound.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	data, err := c.GetBytes(ctx, s.key)
	if redis.IsNil(err) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save overwrites the key.
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	return c.Set(ctx, s.key, data, 0)
}

// Location returns the redis URL of the store.
func (s *RedisStore) Location() string {
	c := s.source.Client()
	if c == nil {
		return "redis:///" + s.key
	}
	return fmt.Sprintf("redis://%s/%d/%s", c.Addr(), c.DB(), s.key)
}

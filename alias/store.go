package alias

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/kbukum/autowire/config"
	"github.com/kbukum/autowire/logger"
	"github.com/kbukum/autowire/redis"
)

// ErrStoreNotFound is returned by Store.Load when the store holds no table yet.
var ErrStoreNotFound = errors.New("alias store: no table stored")

// Store persists the serialized alias table. Save replaces the whole payload.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	// Location identifies the store in logs, e.g. "file:///var/cache/aliases.json".
	Location() string
}

// MemoryStore keeps the payload in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored payload.
func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, ErrStoreNotFound
	}
	return slices.Clone(s.data), nil
}

// Save replaces the stored payload.
func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = slices.Clone(data)
	return nil
}

// Location returns "memory://".
func (s *MemoryStore) Location() string { return "memory://" }

// NewStore builds the backing store selected by cfg. The memory driver, the
// default, keeps the payload for the lifetime of the process.
func NewStore(cfg config.CacheConfig, log *logger.Logger) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("alias store: %w", err)
	}

	switch cfg.Driver {
	case config.CacheDriverFile:
		return NewFileStore(cfg.File), nil
	case config.CacheDriverRedis:
		return NewRedisStore(redis.NewComponent(cfg.Redis, log), cfg.RedisKey), nil
	default:
		return NewMemoryStore(), nil
	}
}

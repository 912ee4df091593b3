package config

import (
	"fmt"

	"github.com/kbukum/autowire/redis"
)

// Cache drivers.
const (
	CacheDriverMemory = "memory"
	CacheDriverFile   = "file"
	CacheDriverRedis  = "redis"
)

// DefaultRedisKey is the key holding the alias table in Redis.
const DefaultRedisKey = "autowire:aliases"

// CacheConfig selects the alias cache's backing store.
type CacheConfig struct {
	// Driver is one of memory, file or redis.
	Driver string `yaml:"driver" mapstructure:"driver" validate:"oneof=memory file redis"`

	// File is the table location for the file driver.
	File string `yaml:"file" mapstructure:"file" validate:"required_if=Driver file"`

	// RedisKey is the key holding the table for the redis driver.
	RedisKey string       `yaml:"redis_key" mapstructure:"redis_key"`
	Redis    redis.Config `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults applies default values to zero-valued fields.
func (c *CacheConfig) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = CacheDriverMemory
		if c.File != "" {
			c.Driver = CacheDriverFile
		}
	}
	if c.Driver == CacheDriverRedis {
		c.Redis.Enabled = true
		if c.RedisKey == "" {
			c.RedisKey = DefaultRedisKey
		}
		c.Redis.ApplyDefaults()
	}
}

// Validate checks driver-specific settings.
func (c *CacheConfig) Validate() error {
	switch c.Driver {
	case CacheDriverMemory:
	case CacheDriverFile:
		if c.File == "" {
			return fmt.Errorf("file is required for the file driver")
		}
	case CacheDriverRedis:
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	default:
		return fmt.Errorf("driver must be one of [memory, file, redis] (got: %s)", c.Driver)
	}
	return nil
}

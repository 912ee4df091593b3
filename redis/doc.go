// Package redis provides a Redis client component with connection pooling,
// lifecycle management, and health checks.
//
// It wraps go-redis with autowire logging, configuration conventions, and
// component lifecycle (Start/Stop/Health). The alias cache uses it as a
// shared backing store so several processes reuse one derived alias table.
//
// # Quick Start
//
//	cfg := redis.Config{
//	    Enabled: true,
//	    Addr:    "localhost:6379",
//	}
//	comp := redis.NewComponent(cfg, log)
//	_ = registry.Register(comp)
package redis

// Package config loads the autowire application configuration and the
// nested configuration tree served to constructors under the config alias.
//
// It uses Viper to read YAML, JSON or TOML files and environment variables,
// and godotenv for .env files. Environment variables override file values;
// CACHE_REDIS_ADDR sets cache.redis.addr.
//
// # Usage
//
//	var cfg config.Config
//	if err := config.LoadConfig("billing", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
//
//	tree, err := config.LoadTree(cfg.Tree)
package config

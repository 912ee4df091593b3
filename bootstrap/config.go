package bootstrap

import (
	"fmt"

	"github.com/kbukum/autowire/config"
)

// LoadConfig reads the configuration of serviceName from its config file and
// environment, applies defaults and validates it.
//
//	cfg, err := bootstrap.LoadConfig("billing")
//	app, err := bootstrap.New(cfg)
func LoadConfig(serviceName string, opts ...config.LoaderOption) (*config.Config, error) {
	cfg := &config.Config{Name: serviceName}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

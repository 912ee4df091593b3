package config

import (
	"fmt"

	"github.com/kbukum/autowire/logger"
	"github.com/kbukum/autowire/observability"
	"github.com/kbukum/autowire/validation"
	"github.com/kbukum/autowire/version"
)

// DefaultConfigAlias is the container key the configuration tree is served
// under when Config.ConfigAlias is empty.
const DefaultConfigAlias = "config"

// Config is the root configuration of an autowire application.
//
//	name: billing
//	environment: production
//	cache:
//	  driver: file
//	  file: /var/cache/billing/autowire.json
//	tree: ./config/app.yml
type Config struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`

	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Cache         CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// ConfigAlias is the container key of the configuration tree.
	ConfigAlias string `yaml:"config_alias" mapstructure:"config_alias"`
	// Tree is an optional YAML/JSON/TOML file served under ConfigAlias.
	Tree string `yaml:"tree" mapstructure:"tree"`
}

// ApplyDefaults applies default values to zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.ConfigAlias == "" {
		c.ConfigAlias = DefaultConfigAlias
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = version.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Logging.ApplyDefaults()
	c.Cache.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks struct tags first, then the nested sections.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("config.cache: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

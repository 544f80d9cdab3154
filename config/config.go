package config

import (
	"fmt"

	"github.com/kbukum/toolbox/database"
	"github.com/kbukum/toolbox/database/query"
	"github.com/kbukum/toolbox/database/schema"
	"github.com/kbukum/toolbox/observability"
)

// Config is the full toolbox configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Database   database.Config  `yaml:"database" mapstructure:"database"`
	Pagination query.PageConfig `yaml:"pagination" mapstructure:"pagination"`
	Metadata   schema.Config    `yaml:"metadata" mapstructure:"metadata"`

	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Pagination.ApplyDefaults()
	c.Metadata.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("config.database: %w", err)
	}
	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("config.pagination: %w", err)
	}
	if err := c.Metadata.Validate(); err != nil {
		return fmt.Errorf("config.metadata: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// Load reads, defaults and validates a Config for serviceName.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package schema

import "fmt"

// DefaultMaxDepth bounds wildcard expansion when nothing else is configured.
const DefaultMaxDepth = 5

// Config contains field metadata resolution settings.
type Config struct {
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("metadata.max_depth must be positive (got: %d)", c.MaxDepth)
	}
	return nil
}

package history

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	DefaultPath        = "data/history.db"
	DefaultBusyTimeout = 5 * time.Second
)

// Config holds run ledger configuration.
type Config struct {
	// Enabled controls whether runs are recorded.
	Enabled bool `mapstructure:"enabled" json:"enabled"`

	// Path is the SQLite database file. ":memory:" keeps the ledger in memory.
	Path string `mapstructure:"path" json:"path"`

	// BusyTimeout bounds how long a writer waits on a locked database.
	BusyTimeout time.Duration `mapstructure:"busy_timeout" json:"busy_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = DefaultBusyTimeout
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Path == "" {
		return fmt.Errorf("history path is required")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy_timeout must be >= 0")
	}
	return nil
}

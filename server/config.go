package server

import (
	"fmt"
	"time"

	"github.com/kbukum/legalassist/resilience"
	"github.com/kbukum/legalassist/server/middleware"
)

// DefaultPort matches the port the upload clients are configured for.
const DefaultPort = 8000

// Config holds HTTP server configuration.
type Config struct {
	Host        string                    `yaml:"host" mapstructure:"host"`
	Port        int                       `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	Timeouts    Timeouts                  `yaml:"timeouts" mapstructure:"timeouts"`
	MaxBodySize string                    `yaml:"max_body_size" mapstructure:"max_body_size"`
	UploadDir   string                    `yaml:"upload_dir" mapstructure:"upload_dir"` // empty means os.TempDir()
	CORS        middleware.CORSConfig     `yaml:"cors" mapstructure:"cors"`
	Pipeline    resilience.BulkheadConfig `yaml:"pipeline" mapstructure:"pipeline"`
}

// Timeouts bound each phase of a connection. Write must cover a whole
// synchronous pipeline run.
type Timeouts struct {
	ReadHeader time.Duration `yaml:"read_header" mapstructure:"read_header"`
	Read       time.Duration `yaml:"read" mapstructure:"read"`
	Write      time.Duration `yaml:"write" mapstructure:"write"`
	Idle       time.Duration `yaml:"idle" mapstructure:"idle"`
}

func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	t := &c.Timeouts
	t.ReadHeader = orDefault(t.ReadHeader, 10*time.Second)
	t.Read = orDefault(t.Read, time.Minute)
	t.Write = orDefault(t.Write, 15*time.Minute)
	t.Idle = orDefault(t.Idle, 2*time.Minute)
	if c.MaxBodySize == "" {
		c.MaxBodySize = "200MB"
	}
	c.CORS.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
}

func orDefault(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Port)
	}
	for name, d := range map[string]time.Duration{
		"read_header": c.Timeouts.ReadHeader,
		"read":        c.Timeouts.Read,
		"write":       c.Timeouts.Write,
		"idle":        c.Timeouts.Idle,
	} {
		if d < 0 {
			return fmt.Errorf("server.timeouts.%s must not be negative (got %s)", name, d)
		}
	}
	if middleware.ParseSize(c.MaxBodySize, -1) < 0 {
		return fmt.Errorf("server.max_body_size is not a size (got %q)", c.MaxBodySize)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("server.pipeline: %w", err)
	}
	return nil
}

package observability

import (
	"fmt"
	"strings"
)

// Config configures tracing and metrics.
type Config struct {
	// ServiceVersion is reported as a resource attribute on spans.
	ServiceVersion string `mapstructure:"service_version" json:"service_version"`

	// Environment is the deployment environment (dev, staging, prod).
	Environment string `mapstructure:"environment" json:"environment"`

	// Tracing enables OTLP span export.
	Tracing bool `mapstructure:"tracing" json:"tracing"`

	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`

	// Insecure allows plain HTTP to the collector.
	Insecure bool `mapstructure:"insecure" json:"insecure"`

	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate"`

	// Metrics enables the Prometheus registry and the /metrics route.
	Metrics bool `mapstructure:"metrics" json:"metrics"`

	// MetricsPath is the route the server exposes metrics on.
	MetricsPath string `mapstructure:"metrics_path" json:"metrics_path"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be within [0, 1], got %v", c.SampleRate)
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("observability: metrics_path must start with '/'")
	}
	if c.Tracing && c.Endpoint == "" {
		return fmt.Errorf("observability: endpoint is required when tracing is enabled")
	}
	return nil
}

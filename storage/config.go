package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config selects and configures the report storage backend.
type Config struct {
	Backend string      `yaml:"backend" mapstructure:"backend"`
	Local   LocalConfig `yaml:"local" mapstructure:"local"`
	S3      S3Config    `yaml:"s3" mapstructure:"s3"`
}

// LocalConfig stores reports as files under Dir.
type LocalConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// S3Config stores reports in an S3 or S3-compatible bucket.
type S3Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	// Prefix is prepended to every key and always ends in "/".
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
	Region string `yaml:"region" mapstructure:"region"`
	// Endpoint points at an S3-compatible service such as MinIO and implies
	// path-style addressing.
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"-" mapstructure:"secret_key"`
	PathStyle bool   `yaml:"path_style" mapstructure:"path_style"`
}

// UsePathStyle reports whether bucket names go in the path.
func (c S3Config) UsePathStyle() bool { return c.PathStyle || c.Endpoint != "" }

// ApplyDefaults fills in zero-valued fields. Local.Dir is left to the caller,
// which derives it from the outputs directory.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
	if c.S3.Prefix != "" && !strings.HasSuffix(c.S3.Prefix, "/") {
		c.S3.Prefix += "/"
	}
}

// Validate checks the settings of the selected backend only.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
		if c.Local.Dir == "" {
			return errors.New("storage: local.dir is required")
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return errors.New("storage: s3.bucket is required")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			return errors.New("storage: s3.access_key and s3.secret_key go together")
		}
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Backend)
	}
	return nil
}

package config

import (
	"github.com/kbukum/legalassist/logger"
)

// Identity names a legalassist process and carries its logging setup.
// Settings embeds it, so its keys sit at the top level of config.yml.
type Identity struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

func (id *Identity) applyDefaults() {
	if id.Name == "" {
		id.Name = DefaultServiceName
	}
	if id.Version == "" {
		id.Version = "0.1.0"
	}
	if id.Environment == "" {
		id.Environment = "development"
	}
	if id.Environment == "development" {
		id.Debug = true
	}
	id.Logging.ApplyDefaults()
}

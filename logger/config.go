package logger

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Output sinks.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
	OutputFile   = "file"
)

var (
	validLevels  = set("trace", "debug", "info", "warn", "error")
	validFormats = set("json", "console")
	validOutputs = set(OutputStdout, OutputStderr, OutputFile)
)

// Config is the logging section of the settings file.
type Config struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
	// NoColor disables ANSI colors in console format.
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
	// Caller adds file:line to every entry.
	Caller bool       `yaml:"caller" mapstructure:"caller"`
	File   FileConfig `yaml:"file" mapstructure:"file"`
}

// FileConfig controls the rotated log file used when Output is "file".
type FileConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = OutputStdout
	}
	if c.File.Path == "" {
		c.File.Path = "logs/legalassist.log"
	}
	if c.File.MaxSizeMB == 0 {
		c.File.MaxSizeMB = 50
	}
	if c.File.MaxBackups == 0 {
		c.File.MaxBackups = 5
	}
	if c.File.MaxAgeDays == 0 {
		c.File.MaxAgeDays = 30
	}
}

// Validate checks the level, format and output against the known values.
func (c *Config) Validate() error {
	if err := oneOf("level", c.Level, validLevels); err != nil {
		return err
	}
	if err := oneOf("format", c.Format, validFormats); err != nil {
		return err
	}
	if err := oneOf("output", c.Output, validOutputs); err != nil {
		return err
	}
	if c.Output == OutputFile && c.File.Path == "" {
		return fmt.Errorf("file.path is required when output is %q", OutputFile)
	}
	return nil
}

func (c *Config) writer() io.Writer {
	switch c.Output {
	case OutputStderr:
		return os.Stderr
	case OutputFile:
		return &lumberjack.Logger{
			Filename:   c.File.Path,
			MaxSize:    c.File.MaxSizeMB,
			MaxBackups: c.File.MaxBackups,
			MaxAge:     c.File.MaxAgeDays,
			Compress:   c.File.Compress,
		}
	default:
		return os.Stdout
	}
}

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func oneOf(field, value string, allowed map[string]struct{}) error {
	if _, ok := allowed[value]; ok {
		return nil
	}
	names := make([]string, 0, len(allowed))
	for k := range allowed {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Errorf("%s %q is not one of %v", field, value, names)
}

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()

	assert.Equal(t, DefaultPort, c.Port)
	assert.Equal(t, "200MB", c.MaxBodySize)
	assert.Equal(t, 15*time.Minute, c.Timeouts.Write)
	assert.Equal(t, []string{"*"}, c.CORS.AllowedOrigins)
	assert.Equal(t, 2, c.Pipeline.MaxConcurrent)
	require.NoError(t, c.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"read timeout", func(c *Config) { c.Timeouts.Read = -time.Second }},
		{"body size", func(c *Config) { c.MaxBodySize = "huge" }},
		{"pipeline wait", func(c *Config) { c.Pipeline.MaxWait = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c Config
			c.ApplyDefaults()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestUploadName(t *testing.T) {
	tests := map[string]string{
		"audience.wav":           "audience.wav",
		"../../etc/passwd":       "passwd",
		`C:\records\hearing.mp3`: "hearing.mp3",
		"":                       "upload",
		"..":                     "upload",
		"/":                      "upload",
	}
	for in, want := range tests {
		assert.Equal(t, want, uploadName(in), in)
	}
}

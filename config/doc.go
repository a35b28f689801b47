// Package config loads legalassist settings.
//
// Values come from config.yml, then a .env file, then the process
// environment. Every key declared on Settings has an environment
// override named after its dotted path, upper-cased with dots replaced by
// underscores: LIMITS_MAX_AUDIO_MINUTES overrides limits.max_audio_minutes.
// Provider option maps can only be set in the config file.
//
//	settings, err := config.Load(config.WithConfigFile("config.yml"))
package config

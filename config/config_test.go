package config

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/kbukum/legalassist/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestIdentityDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		id := Identity{}
		id.applyDefaults()
		if id.Environment != "development" || !id.Debug {
			t.Errorf("expected development with debug, got %+v", id)
		}
		if id.Name != DefaultServiceName {
			t.Errorf("expected name %q, got %q", DefaultServiceName, id.Name)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		id := Identity{Name: "svc", Environment: "production"}
		id.applyDefaults()
		if id.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestSettingsValidate_Identity(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(s *Settings) { s.Environment = "staging" }, ""},
		{"missing name", func(s *Settings) { s.Name = "" }, "name: is required"},
		{"invalid environment", func(s *Settings) { s.Environment = "qa" }, "environment: must be one of"},
		{"invalid log level", func(s *Settings) { s.Logging.Level = "loud" }, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s Settings
			s.ApplyDefaults()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSettingsDefaults(t *testing.T) {
	var s Settings
	s.ApplyDefaults()

	if s.Audio.SampleRate != 16000 || s.Audio.ChunkSeconds != 30 {
		t.Errorf("unexpected audio defaults: %+v", s.Audio)
	}
	if s.Audio.Language != "ar" {
		t.Errorf("expected language ar, got %q", s.Audio.Language)
	}
	if s.Limits.MaxAudioMinutes != 60 || s.Limits.MaxTranscriptCharacters != 20000 {
		t.Errorf("unexpected limits: %+v", s.Limits)
	}
	if s.Retrieval.TopK != 5 {
		t.Errorf("expected top_k 5, got %d", s.Retrieval.TopK)
	}
	if s.Paths.CorpusPath != filepath.Join("data", "legal_corpus", "moroccan_codes.json") {
		t.Errorf("unexpected corpus path %q", s.Paths.CorpusPath)
	}
	if s.Storage.Local.Dir != filepath.Join("data", "outputs") {
		t.Errorf("expected storage to follow outputs dir, got %q", s.Storage.Local.Dir)
	}
	if s.Providers.Transcription.Backend != "whisper" || s.Providers.Diarization.Backend != "pyannote" {
		t.Errorf("unexpected provider defaults: %+v", s.Providers)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSettingsValidate_TagFailure(t *testing.T) {
	var s Settings
	s.ApplyDefaults()
	s.Audio.ChunkSeconds = -1

	err := s.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "audio.chunk_seconds") {
		t.Errorf("expected field path in error, got %q", err.Error())
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", `
name: legalassist
environment: staging
paths:
  data_dir: /srv/legal
audio:
  chunk_seconds: 20
limits:
  max_audio_minutes: 30
providers:
  llm:
    backend: ollama
    options:
      model: llama3.1
`)
	t.Setenv("LIMITS_MAX_AUDIO_MINUTES", "90")
	t.Setenv("RETRIEVAL_TOP_K", "3")

	s, err := Load(WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Environment != "staging" {
		t.Errorf("expected staging, got %q", s.Environment)
	}
	if s.Audio.ChunkSeconds != 20 {
		t.Errorf("expected chunk_seconds 20, got %v", s.Audio.ChunkSeconds)
	}
	if s.Limits.MaxAudioMinutes != 90 {
		t.Errorf("expected env override 90, got %d", s.Limits.MaxAudioMinutes)
	}
	if s.Retrieval.TopK != 3 {
		t.Errorf("expected env override top_k 3, got %d", s.Retrieval.TopK)
	}
	if s.Paths.CorpusPath != filepath.Join("/srv/legal", "legal_corpus", "moroccan_codes.json") {
		t.Errorf("expected corpus path under data_dir, got %q", s.Paths.CorpusPath)
	}
	if s.Providers.LLM.Backend != "ollama" || s.Providers.LLM.Options["model"] != "llama3.1" {
		t.Errorf("unexpected llm provider config: %+v", s.Providers.LLM)
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	s, err := Load(WithConfigFile("config.yml"), WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	if err != nil {
		t.Fatalf("shipped config.yml does not load: %v", err)
	}
	if s.Providers.Transcription.Backend != "whisper" || s.Providers.LLM.Backend != "openai" {
		t.Errorf("unexpected backends: %+v", s.Providers)
	}
	if s.Server.Pipeline.MaxConcurrent != 2 {
		t.Errorf("expected pipeline bulkhead of 2, got %d", s.Server.Pipeline.MaxConcurrent)
	}
	if !s.History.Enabled || s.History.Path != filepath.Join("data", "history.db") {
		t.Errorf("unexpected history config: %+v", s.History)
	}
	// The report composer fixes sampling per request, so these would be dead.
	for _, key := range []string{"temperature", "max_tokens"} {
		if _, ok := s.Providers.LLM.Options[key]; ok {
			t.Errorf("providers.llm.options.%s is overridden by every report request", key)
		}
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "name: legalassist\n")
	envPath := writeFile(t, dir, ".env", "LIMITS_MAX_TRANSCRIPT_CHARACTERS=500\n")
	t.Cleanup(func() { os.Unsetenv("LIMITS_MAX_TRANSCRIPT_CHARACTERS") })

	s, err := Load(WithConfigFile(configPath), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Limits.MaxTranscriptCharacters != 500 {
		t.Errorf("expected .env value 500, got %d", s.Limits.MaxTranscriptCharacters)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var s Settings
	err := LoadConfig("legalassist", &s, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoad_SearchRoot(t *testing.T) {
	root := t.TempDir()
	cmdDir := filepath.Join(root, "cmd", "legalassist")
	if err := os.MkdirAll(cmdDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, cmdDir, "config.yml", "environment: production\n")
	writeFile(t, root, "config.yml", "environment: staging\n")

	var s Settings
	if err := LoadConfig("legalassist", &s, WithSearchRoot(root)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if s.Environment != "production" {
		t.Errorf("expected the cmd config to win, got %q", s.Environment)
	}
}

func TestEnvKeys(t *testing.T) {
	keys := envKeys(reflect.TypeOf(&Settings{}), "")
	want := []string{"name", "logging.file.max_size_mb", "limits.max_audio_minutes", "providers.llm.backend", "storage.s3.bucket"}
	for _, w := range want {
		if !slices.Contains(keys, w) {
			t.Errorf("expected %q among env keys", w)
		}
	}
	if slices.Contains(keys, "providers.llm.options") {
		t.Error("option maps are not bound to the environment")
	}
}

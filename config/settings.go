package config

import (
	"fmt"
	"path/filepath"

	"github.com/kbukum/legalassist/history"
	"github.com/kbukum/legalassist/observability"
	"github.com/kbukum/legalassist/server"
	"github.com/kbukum/legalassist/storage"
	"github.com/kbukum/legalassist/validation"
)

// DefaultServiceName is the service name used to locate config.yml and .env.
const DefaultServiceName = "legalassist"

// Settings is the complete configuration of a legalassist process.
type Settings struct {
	Identity `yaml:",inline" mapstructure:",squash"`

	Paths         Paths                `yaml:"paths" mapstructure:"paths"`
	Audio         Audio                `yaml:"audio" mapstructure:"audio"`
	Limits        Limits               `yaml:"limits" mapstructure:"limits"`
	Retrieval     Retrieval            `yaml:"retrieval" mapstructure:"retrieval"`
	Providers     Providers            `yaml:"providers" mapstructure:"providers"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	History       history.Config       `yaml:"history" mapstructure:"history"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// Paths groups the directories the pipeline reads from and writes to.
type Paths struct {
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`
	WorkDir    string `yaml:"work_dir" mapstructure:"work_dir"`
	CorpusPath string `yaml:"corpus_path" mapstructure:"corpus_path" validate:"required"`
	OutputsDir string `yaml:"outputs_dir" mapstructure:"outputs_dir"`
}

// Audio configures normalization and chunking.
type Audio struct {
	SampleRate   int     `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gt=0"`
	ChunkSeconds float64 `yaml:"chunk_seconds" mapstructure:"chunk_seconds" validate:"gt=0"`
	Denoise      bool    `yaml:"denoise" mapstructure:"denoise"`
	FFmpegBinary string  `yaml:"ffmpeg_binary" mapstructure:"ffmpeg_binary" validate:"required"`
	Language     string  `yaml:"language" mapstructure:"language"`
}

// Limits bounds the size of a single pipeline run.
type Limits struct {
	MaxAudioMinutes         int `yaml:"max_audio_minutes" mapstructure:"max_audio_minutes" validate:"gt=0"`
	MaxTranscriptCharacters int `yaml:"max_transcript_characters" mapstructure:"max_transcript_characters" validate:"gt=0"`
}

// Retrieval configures article search.
type Retrieval struct {
	TopK int `yaml:"top_k" mapstructure:"top_k" validate:"gte=1,lte=50"`
}

// Providers selects the collaborator backends by registry name.
type Providers struct {
	Transcription ProviderConfig `yaml:"transcription" mapstructure:"transcription"`
	Diarization   ProviderConfig `yaml:"diarization" mapstructure:"diarization"`
	NLP           ProviderConfig `yaml:"nlp" mapstructure:"nlp"`
	Embedding     ProviderConfig `yaml:"embedding" mapstructure:"embedding"`
	LLM           ProviderConfig `yaml:"llm" mapstructure:"llm"`
}

// ProviderConfig names a registered backend and passes its options to the
// backend's factory.
type ProviderConfig struct {
	Backend string         `yaml:"backend" mapstructure:"backend" validate:"required"`
	Options map[string]any `yaml:"options" mapstructure:"options"`
}

func (p *ProviderConfig) applyDefault(backend string) {
	if p.Backend == "" {
		p.Backend = backend
	}
	if p.Options == nil {
		p.Options = map[string]any{}
	}
}

// ApplyDefaults fills unset values. Derived paths follow DataDir.
func (s *Settings) ApplyDefaults() {
	s.Identity.applyDefaults()

	if s.Paths.DataDir == "" {
		s.Paths.DataDir = "data"
	}
	if s.Paths.CorpusPath == "" {
		s.Paths.CorpusPath = filepath.Join(s.Paths.DataDir, "legal_corpus", "moroccan_codes.json")
	}
	if s.Paths.OutputsDir == "" {
		s.Paths.OutputsDir = filepath.Join(s.Paths.DataDir, "outputs")
	}

	if s.Audio.SampleRate == 0 {
		s.Audio.SampleRate = 16000
	}
	if s.Audio.ChunkSeconds == 0 {
		s.Audio.ChunkSeconds = 30
	}
	if s.Audio.FFmpegBinary == "" {
		s.Audio.FFmpegBinary = "ffmpeg"
	}
	if s.Audio.Language == "" {
		s.Audio.Language = "ar"
	}

	if s.Limits.MaxAudioMinutes == 0 {
		s.Limits.MaxAudioMinutes = 60
	}
	if s.Limits.MaxTranscriptCharacters == 0 {
		s.Limits.MaxTranscriptCharacters = 20000
	}
	if s.Retrieval.TopK == 0 {
		s.Retrieval.TopK = 5
	}

	s.Providers.Transcription.applyDefault("whisper")
	s.Providers.Diarization.applyDefault("pyannote")
	s.Providers.NLP.applyDefault("sidecar")
	s.Providers.Embedding.applyDefault("ollama")
	s.Providers.LLM.applyDefault("openai")

	if s.Storage.Local.Dir == "" {
		s.Storage.Local.Dir = s.Paths.OutputsDir
	}
	s.Storage.ApplyDefaults()

	if s.History.Path == "" {
		s.History.Path = filepath.Join(s.Paths.DataDir, "history.db")
	}
	s.History.ApplyDefaults()
	s.Server.ApplyDefaults()
	s.Observability.ApplyDefaults()
}

// Validate checks struct tags first, then the per-section rules.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := s.Storage.Validate(); err != nil {
		return fmt.Errorf("config.storage: %w", err)
	}
	if err := s.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := s.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// Load reads config.yml, .env and the environment into Settings, then
// applies defaults and validates the result.
func Load(opts ...LoaderOption) (*Settings, error) {
	var s Settings
	if err := LoadConfig(DefaultServiceName, &s, opts...); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

package bootstrap

import (
	"fmt"

	"github.com/kbukum/legalassist/config"
	"github.com/kbukum/legalassist/diarization"
	"github.com/kbukum/legalassist/diarization/pyannote"
	"github.com/kbukum/legalassist/embedding"
	"github.com/kbukum/legalassist/embedding/hashing"
	embedollama "github.com/kbukum/legalassist/embedding/ollama"
	"github.com/kbukum/legalassist/llm"
	llmollama "github.com/kbukum/legalassist/llm/ollama"
	"github.com/kbukum/legalassist/llm/openai"
	"github.com/kbukum/legalassist/nlp"
	"github.com/kbukum/legalassist/nlp/lexical"
	"github.com/kbukum/legalassist/nlp/sidecar"
	"github.com/kbukum/legalassist/provider"
	"github.com/kbukum/legalassist/transcription"
	"github.com/kbukum/legalassist/transcription/whisper"
)

// Registries holds one factory registry per collaborator kind.
type Registries struct {
	Transcription *provider.Registry[transcription.Provider]
	Diarization   *provider.Registry[diarization.Provider]
	NLP           *provider.Registry[nlp.Provider]
	Embedding     *provider.Registry[embedding.Provider]
	LLM           *provider.Registry[llm.Provider]
}

// NewRegistries registers every built-in backend.
func NewRegistries() *Registries {
	r := &Registries{
		Transcription: provider.NewRegistry[transcription.Provider](),
		Diarization:   provider.NewRegistry[diarization.Provider](),
		NLP:           provider.NewRegistry[nlp.Provider](),
		Embedding:     provider.NewRegistry[embedding.Provider](),
		LLM:           provider.NewRegistry[llm.Provider](),
	}
	r.Transcription.Register(whisper.ProviderName, whisper.Factory())
	r.Diarization.Register(pyannote.ProviderName, pyannote.Factory())
	r.NLP.Register(sidecar.ProviderName, sidecar.Factory())
	r.NLP.Register(lexical.ProviderName, lexical.Factory())
	r.Embedding.Register(embedollama.ProviderName, embedollama.Factory())
	r.Embedding.Register(hashing.ProviderName, hashing.Factory())
	r.LLM.Register(llmollama.ProviderName, llmollama.Factory())
	r.LLM.Register(openai.ProviderName, openai.Factory())
	return r
}

// Providers are the resolved collaborator backends.
type Providers struct {
	Transcriber transcription.Provider
	Diarizer    diarization.Provider
	Analyser    nlp.Provider
	Embedder    embedding.Provider
	LLM         llm.Provider
}

// All lists the providers for health probing.
func (p *Providers) All() []provider.Provider {
	return []provider.Provider{p.Transcriber, p.Diarizer, p.Analyser, p.Embedder, p.LLM}
}

// Resolve builds the backends selected in cfg.
func (r *Registries) Resolve(cfg config.Providers) (*Providers, error) {
	var (
		p   Providers
		err error
	)
	if p.Transcriber, err = r.Transcription.Resolve(cfg.Transcription.Backend, cfg.Transcription.Options); err != nil {
		return nil, fmt.Errorf("providers.transcription: %w", err)
	}
	if p.Diarizer, err = r.Diarization.Resolve(cfg.Diarization.Backend, cfg.Diarization.Options); err != nil {
		return nil, fmt.Errorf("providers.diarization: %w", err)
	}
	if p.Analyser, err = r.NLP.Resolve(cfg.NLP.Backend, cfg.NLP.Options); err != nil {
		return nil, fmt.Errorf("providers.nlp: %w", err)
	}
	if p.Embedder, err = r.Embedding.Resolve(cfg.Embedding.Backend, cfg.Embedding.Options); err != nil {
		return nil, fmt.Errorf("providers.embedding: %w", err)
	}
	if p.LLM, err = r.LLM.Resolve(cfg.LLM.Backend, cfg.LLM.Options); err != nil {
		return nil, fmt.Errorf("providers.llm: %w", err)
	}
	return &p, nil
}

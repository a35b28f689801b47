// Package ollama is the Ollama embedding backend.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/legalassist/embedding"
	"github.com/kbukum/legalassist/httpclient"
	"github.com/kbukum/legalassist/provider"
)

const (
	// ProviderName is the registered name for the Ollama embedding provider.
	ProviderName = "ollama"

	defaultOllamaURL = "http://localhost:11434"
	defaultModel     = "paraphrase-multilingual"
	defaultTimeout   = 60 * time.Second
)

// Config holds configuration for the Ollama embedding provider.
type Config struct {
	BaseURL string        `json:"base_url"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

// Provider implements embedding.Provider using Ollama's /api/embed.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a new Ollama embedding provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that creates Ollama embedding
// providers from a generic config map.
func Factory() provider.Factory[embedding.Provider] {
	return func(cfg map[string]any) (embedding.Provider, error) {
		opts := provider.Options(cfg)
		timeout, err := opts.Duration("timeout", defaultTimeout)
		if err != nil {
			return nil, err
		}
		return NewProvider(Config{
			BaseURL: opts.String("base_url", ""),
			Model:   opts.String("model", ""),
			Timeout: timeout,
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Ollama server is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Healthy(ctx, "/api/tags")
}

// Embed sends all texts in one request and L2-normalizes the vectors.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := p.client.PostJSON(ctx, "/api/embed", embedRequest{Model: p.cfg.Model, Input: texts}, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama embed: %s", resp.Error)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d vectors for %d texts", len(resp.Embeddings), len(texts))
	}

	for _, v := range resp.Embeddings {
		embedding.Normalize(v)
	}
	return resp.Embeddings, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error,omitempty"`
}

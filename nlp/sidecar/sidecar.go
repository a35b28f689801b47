// Package sidecar is the HTTP NLP backend. The sidecar wraps spaCy NER and
// keyword extraction, a sentiment model and a zero-shot case classifier.
package sidecar

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/legalassist/httpclient"
	"github.com/kbukum/legalassist/nlp"
	"github.com/kbukum/legalassist/provider"
)

const (
	// ProviderName is the registered name for the NLP sidecar provider.
	ProviderName = "sidecar"

	defaultURL     = "http://localhost:8389"
	defaultTimeout = 120 * time.Second
)

// DefaultLabels are the candidate case categories.
var DefaultLabels = []string{"penal", "civil", "famille", "travail"}

// Config holds configuration for the NLP sidecar provider.
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	// Labels are the zero-shot classification candidates.
	Labels []string `json:"labels"`
	// MaxKeywords caps the keyword list. 0 leaves it to the sidecar.
	MaxKeywords int `json:"max_keywords"`
}

// Provider implements nlp.Provider over HTTP.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a new NLP sidecar provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = DefaultLabels
	}
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that creates sidecar providers from a
// generic config map.
func Factory() provider.Factory[nlp.Provider] {
	return func(cfg map[string]any) (nlp.Provider, error) {
		opts := provider.Options(cfg)
		timeout, err := opts.Duration("timeout", defaultTimeout)
		if err != nil {
			return nil, err
		}
		maxKeywords, err := opts.Int("max_keywords", 0)
		if err != nil {
			return nil, err
		}
		return NewProvider(Config{
			BaseURL:     opts.String("base_url", ""),
			Timeout:     timeout,
			MaxKeywords: maxKeywords,
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Healthy(ctx, "/health")
}

// Analyse posts text to /analyse.
func (p *Provider) Analyse(ctx context.Context, text string) (*nlp.Report, error) {
	req := analyseRequest{Text: text, Labels: p.cfg.Labels, MaxKeywords: p.cfg.MaxKeywords}

	var report nlp.Report
	if err := p.client.PostJSON(ctx, "/analyse", req, &report); err != nil {
		return nil, fmt.Errorf("nlp analyse: %w", err)
	}
	if report.Entities == nil {
		report.Entities = []nlp.Entity{}
	}
	if report.Keywords == nil {
		report.Keywords = []string{}
	}
	return &report, nil
}

type analyseRequest struct {
	Text        string   `json:"text"`
	Labels      []string `json:"labels"`
	MaxKeywords int      `json:"max_keywords,omitempty"`
}

// Package whisper is the transcription backend served by the faster-whisper
// sidecar.
package whisper

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/legalassist/httpclient"
	"github.com/kbukum/legalassist/provider"
	"github.com/kbukum/legalassist/transcription"
)

// ProviderName is the registry name of this backend.
const ProviderName = "whisper"

const (
	defaultURL      = "http://localhost:8387"
	defaultModel    = "medium"
	defaultLanguage = "ar"
	defaultTimeout  = 2 * time.Minute
)

// Config selects the sidecar and the model it should load. Device and
// ComputeType are passed through untouched when set.
type Config struct {
	URL         string        `json:"url"`
	Model       string        `json:"model"`
	Language    string        `json:"language,omitempty"`
	Device      string        `json:"device,omitempty"`
	ComputeType string        `json:"compute_type,omitempty"`
	Timeout     time.Duration `json:"timeout"`
}

func (c *Config) applyDefaults() {
	c.URL = cmp.Or(c.URL, defaultURL)
	c.Model = cmp.Or(c.Model, defaultModel)
	c.Language = cmp.Or(c.Language, defaultLanguage)
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider against the sidecar's
// POST /transcribe.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider fills defaults and builds the HTTP client.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.applyDefaults()
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.URL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory builds a Provider from the transcription.options map.
func Factory() provider.Factory[transcription.Provider] {
	return func(raw map[string]any) (transcription.Provider, error) {
		opts := provider.Options(raw)
		timeout, err := opts.Duration("timeout", defaultTimeout)
		if err != nil {
			return nil, err
		}
		cfg := Config{Timeout: timeout}
		for key, dst := range map[string]*string{
			"url":          &cfg.URL,
			"model":        &cfg.Model,
			"language":     &cfg.Language,
			"device":       &cfg.Device,
			"compute_type": &cfg.ComputeType,
		} {
			*dst = opts.String(key, "")
		}
		return NewProvider(cfg)
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether GET /health answers 200.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Healthy(ctx, "/health")
}

// Transcribe streams one chunk to the sidecar. The request language wins
// over the configured one.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	lang := cmp.Or(req.Language, p.cfg.Language)
	form := httpclient.NewAudioForm("audio", req.AudioPath).
		Set("model", p.cfg.Model).
		Set("language", lang).
		Set("device", p.cfg.Device).
		Set("compute_type", p.cfg.ComputeType)

	var out reply
	if err := p.client.PostForm(ctx, "/transcribe", form, &out); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}
	return out.response(lang), nil
}

// reply is the sidecar's JSON body. avg_logprob is absent on some builds.
type reply struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Text       string   `json:"text"`
		Start      float64  `json:"start"`
		End        float64  `json:"end"`
		AvgLogprob *float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// response trims segment text and reports avg_logprob as confidence. An empty
// top-level text is rebuilt from the segments.
func (r *reply) response(lang string) *transcription.Response {
	resp := &transcription.Response{
		Text:     strings.TrimSpace(r.Text),
		Language: cmp.Or(r.Language, lang),
		Segments: make([]transcription.Segment, 0, len(r.Segments)),
	}
	parts := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		text := strings.TrimSpace(s.Text)
		parts = append(parts, text)
		resp.Segments = append(resp.Segments, transcription.Segment{
			Text: text, Start: s.Start, End: s.End, Confidence: s.AvgLogprob,
		})
	}
	if resp.Text == "" {
		resp.Text = strings.Join(parts, " ")
	}
	return resp
}

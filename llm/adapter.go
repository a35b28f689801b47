package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/legalassist/httpclient"
	"github.com/kbukum/legalassist/provider"
)

// ErrNoDialect is returned by New without a dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

const defaultTimeout = 2 * time.Minute

// Config is the connection and sampling setup of one chat backend.
// Zero fields fall back to the dialect's defaults, then to the backend's.
type Config struct {
	Name        string            `yaml:"name" json:"name"` // defaults to the dialect name
	BaseURL     string            `yaml:"base_url" json:"base_url"`
	Model       string            `yaml:"model" json:"model"`
	Temperature float64           `yaml:"temperature" json:"temperature"`
	MaxTokens   int               `yaml:"max_tokens" json:"max_tokens"` // 0 leaves it to the backend
	Timeout     time.Duration     `yaml:"timeout" json:"timeout"`
	APIKey      string            `yaml:"-" json:"-"` // sent as a bearer token
	Headers     map[string]string `yaml:"headers" json:"headers"`
}

// DecodeOptions reads a providers.llm.options map over base.
func DecodeOptions(opts provider.Options, base Config) (Config, error) {
	cfg := base
	cfg.BaseURL = opts.String("base_url", base.BaseURL)
	cfg.Model = opts.String("model", base.Model)
	cfg.APIKey = opts.String("api_key", base.APIKey)

	var err error
	if cfg.Temperature, err = opts.Float("temperature", base.Temperature); err != nil {
		return Config{}, err
	}
	if cfg.MaxTokens, err = opts.Int("max_tokens", base.MaxTokens); err != nil {
		return Config{}, err
	}
	if cfg.Timeout, err = opts.Duration("timeout", base.Timeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Adapter speaks to one chat backend over HTTP. The Dialect owns the wire
// format; the Adapter owns transport and request defaults.
type Adapter struct {
	cfg     Config
	dialect Dialect
	http    *httpclient.Client
}

func New(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	if cfg.Name == "" {
		cfg.Name = dialect.Name()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Token:   cfg.APIKey,
		Headers: cfg.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %s: %w", cfg.Name, err)
	}
	return &Adapter{cfg: cfg, dialect: dialect, http: client}, nil
}

func (a *Adapter) Name() string { return a.cfg.Name }

// Model is the model used when a request names none.
func (a *Adapter) Model() string { return a.cfg.Model }

// IsAvailable probes the dialect's health path. Backends without one are
// assumed up.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	path := a.dialect.HealthPath()
	return path == "" || a.http.Healthy(ctx, path)
}

// Complete sends one chat completion. Unset model, temperature and token
// limit take the adapter's configured values.
func (a *Adapter) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		req.Model = a.cfg.Model
	}
	if req.Temperature == 0 {
		req.Temperature = a.cfg.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.cfg.MaxTokens
	}

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return nil, fmt.Errorf("llm: %s: build request: %w", a.cfg.Name, err)
	}
	var raw json.RawMessage
	if err := a.http.PostJSON(ctx, a.dialect.ChatPath(), body, &raw); err != nil {
		return nil, fmt.Errorf("llm: %s: %w", a.cfg.Name, err)
	}
	resp, err := a.dialect.ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("llm: %s: parse response: %w", a.cfg.Name, err)
	}
	return resp, nil
}

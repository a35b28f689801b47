// Package ollama is the Ollama chat backend for llm.
package ollama

import (
	"cmp"
	"encoding/json"
	"fmt"

	"github.com/kbukum/legalassist/llm"
	"github.com/kbukum/legalassist/provider"
)

// ProviderName is the registry name of this backend.
const ProviderName = "ollama"

const (
	defaultURL   = "http://localhost:11434"
	defaultModel = "llama3"
)

// Dialect maps llm requests onto Ollama's native /api/chat.
type Dialect struct{}

// Name returns the dialect name.
func (Dialect) Name() string { return ProviderName }

// ChatPath returns the chat endpoint.
func (Dialect) ChatPath() string { return "/api/chat" }

// HealthPath lists local models, which fails when the daemon is down.
func (Dialect) HealthPath() string { return "/api/tags" }

// BuildRequest sends the sampling settings under "options", where Ollama
// expects them.
func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	out := chatRequest{
		Model:   req.Model,
		Options: &options{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}
	for _, m := range req.AllMessages() {
		out.Messages = append(out.Messages, message{Role: m.Role, Content: m.Content})
	}
	return out, nil
}

// ParseResponse surfaces an in-body error even on a 200.
func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var r chatReply
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if r.Error != "" {
		return nil, fmt.Errorf("ollama: %s", r.Error)
	}
	usage := llm.Usage{PromptTokens: r.PromptEvalCount, CompletionTokens: r.EvalCount}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return &llm.CompletionResponse{Content: r.Message.Content, Model: r.Model, Usage: usage}, nil
}

// NewProvider returns an adapter speaking to a local Ollama daemon unless
// BaseURL says otherwise.
func NewProvider(cfg llm.Config) (*llm.Adapter, error) {
	cfg.BaseURL = cmp.Or(cfg.BaseURL, defaultURL)
	cfg.Model = cmp.Or(cfg.Model, defaultModel)
	return llm.New(Dialect{}, cfg)
}

// Factory builds the adapter from the llm.options map.
func Factory() provider.Factory[llm.Provider] {
	return func(raw map[string]any) (llm.Provider, error) {
		c, err := llm.DecodeOptions(provider.Options(raw), llm.Config{})
		if err != nil {
			return nil, err
		}
		return NewProvider(c)
	}
}

// Wire types of /api/chat with stream disabled.

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type options struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *options  `json:"options,omitempty"`
}

type chatReply struct {
	Model           string  `json:"model"`
	Message         message `json:"message"`
	Done            bool    `json:"done"`
	PromptEvalCount int     `json:"prompt_eval_count,omitempty"`
	EvalCount       int     `json:"eval_count,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// Package openai is the OpenAI-compatible chat backend for llm. It works
// against api.openai.com and local servers exposing /v1/chat/completions.
package openai

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kbukum/legalassist/llm"
	"github.com/kbukum/legalassist/provider"
)

const (
	// ProviderName is the registered name for the OpenAI-compatible provider.
	ProviderName = "openai"

	// APIKeyEnv is read when no api_key option is configured.
	APIKeyEnv = "OPENAI_API_KEY"

	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
)

// Dialect maps llm requests onto the chat completions API.
type Dialect struct{}

// Name returns the dialect name.
func (Dialect) Name() string { return ProviderName }

// ChatPath returns the chat endpoint.
func (Dialect) ChatPath() string { return "/v1/chat/completions" }

// HealthPath returns the model listing endpoint.
func (Dialect) HealthPath() string { return "/v1/models" }

// BuildRequest maps a CompletionRequest to a chat completions request.
func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := req.AllMessages()
	out := make([]chatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = chatMessage{Role: m.Role, Content: m.Content}
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    out,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse maps a chat completions response to a CompletionResponse.
func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}
	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// NewProvider creates an OpenAI-compatible llm.Provider. The API key falls
// back to OPENAI_API_KEY.
func NewProvider(cfg llm.Config) (*llm.Adapter, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(APIKeyEnv)
	}
	return llm.New(Dialect{}, cfg)
}

// Factory returns a provider.Factory that creates OpenAI-compatible
// providers from a generic config map.
func Factory() provider.Factory[llm.Provider] {
	return func(cfg map[string]any) (llm.Provider, error) {
		c, err := llm.DecodeOptions(provider.Options(cfg), llm.Config{})
		if err != nil {
			return nil, err
		}
		return NewProvider(c)
	}
}

// --- internal API types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

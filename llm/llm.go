package llm

import (
	"context"

	"github.com/kbukum/legalassist/provider"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider generates chat completions.
type Provider interface {
	provider.Provider
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Dialect is the wire format of one chat API. Adapter owns the transport
// and asks the dialect where to send requests and how to shape them.
type Dialect interface {
	Name() string
	ChatPath() string
	// HealthPath is probed by IsAvailable. "" skips the probe.
	HealthPath() string
	BuildRequest(req CompletionRequest) (any, error)
	ParseResponse(body []byte) (*CompletionResponse, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one chat turn. Zero Model, Temperature and MaxTokens
// take the adapter's configured values.
type CompletionRequest struct {
	Model        string    `json:"model,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	Temperature  float64   `json:"temperature,omitempty"`
	MaxTokens    int       `json:"max_tokens,omitempty"`
}

// AllMessages returns the conversation with SystemPrompt, when set, as the
// leading system message.
func (r CompletionRequest) AllMessages() []Message {
	if r.SystemPrompt == "" {
		return r.Messages
	}
	return append([]Message{{Role: RoleSystem, Content: r.SystemPrompt}}, r.Messages...)
}

type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage is the token accounting reported by the backend, zero when it
// reports none.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

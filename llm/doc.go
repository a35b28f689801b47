// Package llm provides the text generation contract and a config-driven
// chat adapter built on the shared httpclient.
//
// The adapter works with any chat backend via the Dialect pattern: a
// Dialect maps the universal [CompletionRequest] and [CompletionResponse]
// to a backend's JSON, the [Adapter] does the HTTP call.
//
// # Backends
//
//   - llm/ollama: Ollama /api/chat
//   - llm/openai: OpenAI-compatible /v1/chat/completions
//
// # Usage
//
//	reg := provider.NewRegistry[llm.Provider]()
//	reg.Register(ollama.ProviderName, ollama.Factory())
//	p, err := reg.Resolve("ollama", map[string]any{"model": "qwen2.5:7b"})
//	resp, err := p.Complete(ctx, llm.CompletionRequest{
//	    SystemPrompt: system,
//	    Messages:     []llm.Message{{Role: "user", Content: prompt}},
//	    Temperature:  0.2,
//	    MaxTokens:    800,
//	})
package llm

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/llm"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen2.5:7b", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		require.NotNil(t, req.Options)
		assert.Equal(t, 0.2, req.Options.Temperature)
		assert.Equal(t, 800, req.Options.NumPredict)

		_, _ = w.Write([]byte(`{"model":"qwen2.5:7b","message":{"role":"assistant","content":"Résumé"},"done":true,"prompt_eval_count":12,"eval_count":30}`))
	}))
	defer srv.Close()

	p, err := NewProvider(llm.Config{BaseURL: srv.URL, Model: "qwen2.5:7b"})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		SystemPrompt: "Tu es un assistant juridique.",
		Messages:     []llm.Message{{Role: "user", Content: "Analyse"}},
		Temperature:  0.2,
		MaxTokens:    800,
	})
	require.NoError(t, err)
	assert.Equal(t, "Résumé", resp.Content)
	assert.Equal(t, 42, resp.Usage.TotalTokens)
}

func TestParseResponse_Error(t *testing.T) {
	_, err := Dialect{}.ParseResponse([]byte(`{"error":"model 'x' not found"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, ProviderName, p.Name())

	_, err = Factory()(map[string]any{"timeout": "eventually"})
	assert.Error(t, err)
}

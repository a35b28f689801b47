package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/provider"
)

// echoDialect posts the request as plain JSON and reads {"content","model"}.
type echoDialect struct {
	health   string
	buildErr error
	parseErr error
}

func (echoDialect) Name() string         { return "echo" }
func (echoDialect) ChatPath() string     { return "/chat" }
func (d echoDialect) HealthPath() string { return d.health }

func (d echoDialect) BuildRequest(req CompletionRequest) (any, error) {
	if d.buildErr != nil {
		return nil, d.buildErr
	}
	return wireRequest{Model: req.Model, Messages: req.AllMessages(), Temperature: req.Temperature, MaxTokens: req.MaxTokens}, nil
}

func (d echoDialect) ParseResponse(body []byte) (*CompletionResponse, error) {
	if d.parseErr != nil {
		return nil, d.parseErr
	}
	var out CompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type wireRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// chatServer records the last decoded request and answers with reply.
func chatServer(t *testing.T, reply string, got *wireRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	a, err := New(echoDialect{}, Config{BaseURL: "http://localhost:12345", Model: "qwen2.5:7b"})
	require.NoError(t, err)
	assert.Equal(t, "echo", a.Name())
	assert.Equal(t, "qwen2.5:7b", a.Model())

	named, err := New(echoDialect{}, Config{BaseURL: "http://localhost:12345", Name: "summaries"})
	require.NoError(t, err)
	assert.Equal(t, "summaries", named.Name())

	_, err = New(nil, Config{})
	assert.ErrorIs(t, err, ErrNoDialect)

	_, err = New(echoDialect{}, Config{BaseURL: "localhost:11434"})
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	var got wireRequest
	srv := chatServer(t, `{"content":"Résumé:\n- faits","model":"qwen2.5:7b"}`, &got)

	a, err := New(echoDialect{}, Config{BaseURL: srv.URL, Model: "qwen2.5:7b"})
	require.NoError(t, err)

	resp, err := a.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "Tu es un assistant juridique.",
		Messages:     []Message{{Role: "user", Content: "Analyse"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Résumé:\n- faits", resp.Content)

	assert.Equal(t, "qwen2.5:7b", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestComplete_Defaults(t *testing.T) {
	tests := []struct {
		name string
		req  CompletionRequest
		want wireRequest
	}{
		{
			name: "configured values fill the gaps",
			req:  CompletionRequest{},
			want: wireRequest{Model: "llama3", Temperature: 0.2, MaxTokens: 800},
		},
		{
			name: "request values win",
			req:  CompletionRequest{Model: "mistral", Temperature: 0.7, MaxTokens: 100},
			want: wireRequest{Model: "mistral", Temperature: 0.7, MaxTokens: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got wireRequest
			srv := chatServer(t, `{"content":"ok"}`, &got)
			a, err := New(echoDialect{}, Config{BaseURL: srv.URL, Model: "llama3", Temperature: 0.2, MaxTokens: 800})
			require.NoError(t, err)

			_, err = a.Complete(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Model, got.Model)
			assert.Equal(t, tt.want.Temperature, got.Temperature)
			assert.Equal(t, tt.want.MaxTokens, got.MaxTokens)
		})
	}
}

func TestComplete_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"content":"ok"}`))
	}))
	defer srv.Close()

	a, err := New(echoDialect{}, Config{BaseURL: srv.URL, APIKey: "sk-test"})
	require.NoError(t, err)
	_, err = a.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
}

func TestComplete_Errors(t *testing.T) {
	overloaded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer overloaded.Close()
	empty := chatServer(t, `{}`, nil)

	tests := []struct {
		name    string
		dialect echoDialect
		url     string
		want    string
	}{
		{"build", echoDialect{buildErr: errors.New("bad prompt")}, "http://localhost:1", "build request"},
		{"status", echoDialect{}, overloaded.URL, "overloaded"},
		{"parse", echoDialect{parseErr: errors.New("no choices")}, empty.URL, "parse response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.dialect, Config{BaseURL: tt.url})
			require.NoError(t, err)
			_, err = a.Complete(context.Background(), CompletionRequest{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	up, err := New(echoDialect{health: "/api/tags"}, Config{BaseURL: srv.URL})
	require.NoError(t, err)
	assert.True(t, up.IsAvailable(context.Background()))

	wrongPath, err := New(echoDialect{health: "/missing"}, Config{BaseURL: srv.URL})
	require.NoError(t, err)
	assert.False(t, wrongPath.IsAvailable(context.Background()))

	noProbe, err := New(echoDialect{}, Config{BaseURL: "http://localhost:1"})
	require.NoError(t, err)
	assert.True(t, noProbe.IsAvailable(context.Background()))
}

func TestDecodeOptions(t *testing.T) {
	cfg, err := DecodeOptions(provider.Options{
		"model":       "qwen2.5:7b",
		"temperature": "0.2",
		"max_tokens":  800,
		"timeout":     "90s",
	}, Config{BaseURL: "http://localhost:11434", Model: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", cfg.BaseURL)
	assert.Equal(t, "qwen2.5:7b", cfg.Model)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 800, cfg.MaxTokens)
	assert.Equal(t, 90.0, cfg.Timeout.Seconds())

	_, err = DecodeOptions(provider.Options{"max_tokens": "many"}, Config{})
	assert.Error(t, err)
}

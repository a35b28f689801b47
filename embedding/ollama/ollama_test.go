package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/embedding"
)

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultModel, req.Model)
		assert.Equal(t, []string{"divorce", "contrat"}, req.Input)
		_, _ = w.Write([]byte(`{"embeddings":[[3,4],[0,2]]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	vecs, err := p.Embed(context.Background(), []string{"divorce", "contrat"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.InDelta(t, 0.6, vecs[0][0], 1e-6)
	assert.InDelta(t, 1.0, embedding.Dot(vecs[1], vecs[1]), 1e-6)
}

func TestEmbed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[1,0]]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = p.Embed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbed_Empty(t *testing.T) {
	p, err := NewProvider(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	vecs, err := p.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"model": "nomic-embed-text"})
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", p.(*Provider).cfg.Model)
}

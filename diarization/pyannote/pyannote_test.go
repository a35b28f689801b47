package pyannote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/legalassist/diarization"
)

func writeWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hearing.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF0000WAVE"), 0o644))
	return path
}

func TestDiarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/diarize", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "2", r.FormValue("num_speakers"))
		_, _ = w.Write([]byte(`{"num_speakers":2,"segments":[
			{"speaker_id":"SPEAKER_00","start_time":0,"end_time":3.2},
			{"speaker_id":"","track_id":"B","start_time":3.2,"end_time":6}
		]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL, Token: "hf_test"})
	require.NoError(t, err)

	resp, err := p.Diarize(context.Background(), diarization.Request{AudioPath: writeWAV(t), NumSpeakers: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.NumSpeakers)
	require.Len(t, resp.Segments, 2)
	assert.Equal(t, diarization.Segment{Speaker: "SPEAKER_00", Start: 0, End: 3.2}, resp.Segments[0])
	assert.Equal(t, "B", resp.Segments[1].Label())
}

func TestDiarize_ErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"pipeline not loaded"}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Diarize(context.Background(), diarization.Request{AudioPath: writeWAV(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline not loaded")
}

func TestDiarize_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewProvider(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Diarize(context.Background(), diarization.Request{AudioPath: writeWAV(t)})
	assert.Error(t, err)
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"timeout": 60})
	require.NoError(t, err)
	assert.Equal(t, defaultURL, p.(*Provider).client.BaseURL())

	_, err = Factory()(map[string]any{"timeout": "soon"})
	assert.Error(t, err)
}

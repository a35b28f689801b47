// Package pyannote is the diarization backend served by the pyannote.audio
// sidecar.
package pyannote

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kbukum/legalassist/diarization"
	"github.com/kbukum/legalassist/httpclient"
	"github.com/kbukum/legalassist/provider"
)

const (
	// ProviderName is the registry name of this backend.
	ProviderName = "pyannote"
	// TokenEnv supplies the Hugging Face token when the options carry none.
	TokenEnv = "HUGGINGFACE_TOKEN"
)

const (
	defaultURL     = "http://localhost:8388"
	defaultTimeout = 5 * time.Minute
)

// Config points at the sidecar. Token is the Hugging Face token the sidecar
// needs to fetch the gated pipeline.
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	Token   string        `json:"-"`
}

// Provider implements diarization.Provider against the sidecar's
// POST /diarize.
type Provider struct {
	client *httpclient.Client
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, Token: cfg.Token})
	if err != nil {
		return nil, fmt.Errorf("pyannote: %w", err)
	}
	return &Provider{client: client}, nil
}

// Factory reads base_url, timeout and token from the options map.
// The token falls back to $HUGGINGFACE_TOKEN.
func Factory() provider.Factory[diarization.Provider] {
	return func(cfg map[string]any) (diarization.Provider, error) {
		opts := provider.Options(cfg)
		timeout, err := opts.Duration("timeout", defaultTimeout)
		if err != nil {
			return nil, err
		}
		return NewProvider(Config{BaseURL: opts.String("base_url", ""), Timeout: timeout, Token: opts.String("token", os.Getenv(TokenEnv))})
	}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.Healthy(ctx, "/health")
}

func (p *Provider) Diarize(ctx context.Context, req diarization.Request) (*diarization.Response, error) {
	form := httpclient.NewAudioForm("audio", req.AudioPath)
	for field, n := range map[string]int{
		"num_speakers": req.NumSpeakers,
		"min_speakers": req.MinSpeakers,
		"max_speakers": req.MaxSpeakers,
	} {
		if n > 0 {
			form.Set(field, strconv.Itoa(n))
		}
	}

	var out reply
	if err := p.client.PostForm(ctx, "/diarize", form, &out); err != nil {
		return nil, fmt.Errorf("pyannote: diarize: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("pyannote: diarize: %s", out.Error)
	}
	return out.response(), nil
}

// reply is the sidecar's JSON body.
type reply struct {
	NumSpeakers int    `json:"num_speakers"`
	Error       string `json:"error,omitempty"`
	Segments    []struct {
		SpeakerID string  `json:"speaker_id"`
		TrackID   string  `json:"track_id,omitempty"`
		StartTime float64 `json:"start_time"`
		EndTime   float64 `json:"end_time"`
	} `json:"segments"`
}

func (r *reply) response() *diarization.Response {
	resp := &diarization.Response{
		NumSpeakers: r.NumSpeakers,
		Segments:    make([]diarization.Segment, 0, len(r.Segments)),
	}
	for _, s := range r.Segments {
		resp.Segments = append(resp.Segments, diarization.Segment{
			Speaker: s.SpeakerID,
			TrackID: s.TrackID,
			Start:   s.StartTime,
			End:     s.EndTime,
		})
	}
	return resp
}

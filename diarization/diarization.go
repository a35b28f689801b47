package diarization

import (
	"context"

	"github.com/kbukum/legalassist/provider"
)

// Provider labels who speaks when across a whole recording.
type Provider interface {
	provider.Provider
	// Diarize returns speaker intervals in backend order. Intervals may
	// overlap.
	Diarize(ctx context.Context, req Request) (*Response, error)
}

// Request carries optional speaker-count hints; zero means unknown.
type Request struct {
	AudioPath   string `json:"audio_path"`
	NumSpeakers int    `json:"num_speakers,omitempty"`
	MinSpeakers int    `json:"min_speakers,omitempty"`
	MaxSpeakers int    `json:"max_speakers,omitempty"`
}

type Response struct {
	Segments    []Segment `json:"segments"`
	NumSpeakers int       `json:"num_speakers"`
}

// Segment is one speaker interval. Some backends only fill TrackID.
type Segment struct {
	Speaker string  `json:"speaker"`
	TrackID string  `json:"track_id,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Label is Speaker, or TrackID when Speaker is empty.
func (s Segment) Label() string {
	if s.Speaker == "" {
		return s.TrackID
	}
	return s.Speaker
}

// SpeakerSegment is transcript text attributed to one speaker.
type SpeakerSegment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

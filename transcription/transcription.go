package transcription

import (
	"context"

	"github.com/kbukum/legalassist/provider"
)

// Provider turns one audio file into timed text.
type Provider interface {
	provider.Provider
	// Transcribe returns segments timed from the start of req.AudioPath.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	AudioPath string `json:"audio_path"`
	Language  string `json:"language,omitempty"` // ISO 639-1 hint, e.g. "ar"
}

type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"` // detected, or the hint echoed back
}

// Segment is a span of recognized text. Confidence is nil when the backend
// reports no score.
type Segment struct {
	Text       string   `json:"text"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Confidence *float64 `json:"confidence"`
}

// Shift returns s moved later by offset seconds.
func (s Segment) Shift(offset float64) Segment {
	s.Start += offset
	s.End += offset
	return s
}

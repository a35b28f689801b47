package audio

import (
	"fmt"

	"github.com/kbukum/legalassist/errors"
)

// Chunk is one contiguous slice of the normalized recording, written to disk.
type Chunk struct {
	Index int     `json:"index"`
	Path  string  `json:"path"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End - Start in seconds.
func (c Chunk) Duration() float64 { return c.End - c.Start }

// Span is a planned [Start, End) window in seconds.
type Span struct {
	Start float64
	End   float64
}

// Plan returns the ceil(total/chunk) spans [i*chunk, min((i+1)*chunk, total)).
// The last span may be shorter than chunk.
func Plan(total, chunk float64) ([]Span, error) {
	if chunk <= 0 {
		return nil, errors.Internal(fmt.Errorf("chunk duration must be positive, got %v", chunk))
	}
	if total <= 0 {
		return nil, errors.InputError("", "audio has no duration")
	}

	spans := make([]Span, 0, int(total/chunk)+1)
	for i := 0; ; i++ {
		start := float64(i) * chunk
		if start >= total {
			break
		}
		spans = append(spans, Span{Start: start, End: min(float64(i+1)*chunk, total)})
	}
	return spans, nil
}

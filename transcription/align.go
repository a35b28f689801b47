package transcription

import (
	"fmt"

	"github.com/kbukum/legalassist/audio"
	"github.com/kbukum/legalassist/errors"
)

// Align shifts each chunk's segments by the chunk start and concatenates
// them in chunk order. perChunk[i] holds the segments transcribed from
// chunks[i]. Segments are never merged or split.
func Align(chunks []audio.Chunk, perChunk [][]Segment) ([]Segment, error) {
	if len(chunks) != len(perChunk) {
		return nil, errors.Internal(fmt.Errorf("align: %d chunks but %d transcripts", len(chunks), len(perChunk)))
	}

	n := 0
	for _, segs := range perChunk {
		n += len(segs)
	}

	out := make([]Segment, 0, n)
	for i, chunk := range chunks {
		for _, seg := range perChunk[i] {
			out = append(out, seg.Shift(chunk.Start))
		}
	}
	return out, nil
}

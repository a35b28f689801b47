package audio

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
)

// ChunkFileName is the file name of chunk i inside a run's work dir.
func ChunkFileName(i int) string {
	return fmt.Sprintf("chunk_%04d.wav", i)
}

// Segmenter cuts a normalized WAV into fixed-length chunk files.
type Segmenter struct {
	chunkSeconds float64
	log          *logger.Logger
}

// NewSegmenter creates a Segmenter for chunks of chunkSeconds.
func NewSegmenter(chunkSeconds float64, log *logger.Logger) *Segmenter {
	return &Segmenter{chunkSeconds: chunkSeconds, log: log.WithComponent("segmenter")}
}

// Segment streams wavPath and writes one chunk file per span of Plan into
// workDir. Only one chunk of samples is held in memory. Span bounds are
// rounded to sample offsets, so consecutive chunks share their boundary
// exactly and the last one ends at the final sample.
func (s *Segmenter) Segment(ctx context.Context, wavPath, workDir string) ([]Chunk, error) {
	if s.chunkSeconds <= 0 {
		return nil, errors.Internal(fmt.Errorf("chunk duration must be positive, got %v", s.chunkSeconds))
	}

	src, err := openPCM(wavPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	if src.frames == 0 {
		return nil, errors.InputError(wavPath, "audio contains no samples")
	}

	rate := float64(src.rate)
	spans, err := Plan(float64(src.frames)/rate, s.chunkSeconds)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, errors.Internal(fmt.Errorf("create work dir: %w", err))
	}

	var buf []int
	chunks := make([]Chunk, 0, len(spans))
	for i, sp := range spans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		from := int(math.Round(sp.Start * rate))
		to := int(math.Round(sp.End * rate))
		if i == len(spans)-1 {
			to = src.frames
		}
		if to <= from {
			break
		}
		if cap(buf) < to-from {
			buf = make([]int, to-from)
		}

		n, err := src.read(buf[:to-from])
		if err != nil {
			return nil, errors.InputError(wavPath, "cannot decode PCM data").WithCause(err)
		}
		if n == 0 {
			break
		}
		to = from + n

		path := filepath.Join(workDir, ChunkFileName(i))
		if err := WriteWAV(path, buf[:n], src.rate, src.depth); err != nil {
			return nil, errors.Internal(err)
		}
		chunks = append(chunks, Chunk{
			Index: i,
			Path:  path,
			Start: float64(from) / rate,
			End:   float64(to) / rate,
		})
	}
	if len(chunks) == 0 {
		return nil, errors.InputError(wavPath, "audio contains no samples")
	}

	s.log.Info("audio segmented", logger.Fields(
		"input", wavPath,
		"chunks", len(chunks),
		"duration_s", chunks[len(chunks)-1].End,
	))
	return chunks, nil
}

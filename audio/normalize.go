package audio

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/logger"
	"github.com/kbukum/legalassist/process"
)

// NormalizerConfig configures the ffmpeg conversion.
type NormalizerConfig struct {
	Binary     string
	SampleRate int
	Denoise    bool
}

// Normalizer converts any input ffmpeg can read into mono 16-bit PCM WAV at
// the configured sample rate.
type Normalizer struct {
	cfg    NormalizerConfig
	runner process.Runner
	log    *logger.Logger
}

// NewNormalizer creates a Normalizer. A nil runner uses process.ExecRunner.
func NewNormalizer(cfg NormalizerConfig, runner process.Runner, log *logger.Logger) *Normalizer {
	if cfg.Binary == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if runner == nil {
		runner = process.ExecRunner{}
	}
	return &Normalizer{cfg: cfg, runner: runner, log: log.WithComponent("normalizer")}
}

// Name identifies the normalizer in health reports.
func (n *Normalizer) Name() string { return "ffmpeg" }

// IsAvailable reports whether the ffmpeg binary is on PATH.
func (n *Normalizer) IsAvailable(_ context.Context) bool {
	return process.Available(n.cfg.Binary)
}

// Args returns the ffmpeg arguments for converting in to out. A positive
// limit stops the output at that duration.
func (n *Normalizer) Args(in, out string, limit time.Duration) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-nostdin", "-y",
		"-i", in,
		"-ac", "1",
		"-ar", strconv.Itoa(n.cfg.SampleRate),
	}
	if limit > 0 {
		args = append(args, "-t", strconv.FormatFloat(limit.Seconds(), 'f', -1, 64))
	}
	if n.cfg.Denoise {
		args = append(args, "-af", "afftdn")
	}
	return append(args, "-c:a", "pcm_s16le", out)
}

// Normalize writes the converted audio to out, at most limit long when limit
// is positive. Unreadable or undecodable input is an INPUT_ERROR.
func (n *Normalizer) Normalize(ctx context.Context, in, out string, limit time.Duration) error {
	if _, err := os.Stat(in); err != nil {
		return errors.InputError(in, "file not found").WithCause(err)
	}

	cmd := process.Command{Binary: n.cfg.Binary, Args: n.Args(in, out, limit)}
	res, err := n.runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.InputError(in, "ffmpeg could not decode the file").WithCause(err)
	}

	fields := logger.Fields("input", in, "output", out, "denoise", n.cfg.Denoise)
	if res != nil {
		fields[logger.FieldDuration] = res.Duration.Milliseconds()
	}
	n.log.Debug("audio normalized", fields)
	return nil
}

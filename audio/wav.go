package audio

import (
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/kbukum/legalassist/errors"
)

const (
	pcmFormat      = 1 // WAVE_FORMAT_PCM
	outputBitDepth = 16
)

// pcmReader streams the PCM data of a WAV file as mono frames.
type pcmReader struct {
	f        *os.File
	dec      *wav.Decoder
	channels int
	rate     int
	depth    int
	frames   int
	scratch  []int
}

// openPCM validates the header and positions the decoder at the PCM data.
func openPCM(path string) (*pcmReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.InputError(path, "cannot open audio").WithCause(err)
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, errors.InputError(path, "not a valid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		f.Close()
		return nil, errors.InputError(path, "cannot locate PCM data").WithCause(err)
	}
	frameBytes := int(dec.NumChans) * int(dec.BitDepth) / 8
	if frameBytes == 0 || dec.SampleRate == 0 {
		f.Close()
		return nil, errors.InputError(path, "WAV header is incomplete")
	}
	return &pcmReader{
		f:        f,
		dec:      dec,
		channels: int(dec.NumChans),
		rate:     int(dec.SampleRate),
		depth:    int(dec.BitDepth),
		frames:   dec.PCMSize / frameBytes,
	}, nil
}

// read fills dst with the next frames, averaging channels, and returns how
// many it read. Fewer than len(dst) means the data ended.
func (r *pcmReader) read(dst []int) (int, error) {
	need := len(dst) * r.channels
	if cap(r.scratch) < need {
		r.scratch = make([]int, need)
	}
	raw := r.scratch[:need]
	filled := 0
	for filled < need {
		n, err := r.dec.PCMBuffer(&goaudio.IntBuffer{Data: raw[filled:]})
		if err != nil {
			return 0, err
		}
		if n <= 0 {
			break
		}
		filled += n
	}

	frames := filled / r.channels
	for i := range frames {
		sum := 0
		for _, v := range raw[i*r.channels : (i+1)*r.channels] {
			sum += v
		}
		dst[i] = sum / r.channels
	}
	return frames, nil
}

func (r *pcmReader) Close() error { return r.f.Close() }

// Probe returns the duration of a WAV file from its header.
func Probe(path string) (time.Duration, error) {
	r, err := openPCM(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return time.Duration(r.frames) * time.Second / time.Duration(r.rate), nil
}

// WriteWAV writes mono samples as a PCM WAV file.
func WriteWAV(path string, samples []int, sampleRate, bitDepth int) error {
	if bitDepth == 0 {
		bitDepth = outputBitDepth
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}

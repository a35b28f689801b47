// Package diarization defines the speaker diarization provider contract and
// the fusion step that assigns one speaker to every transcript segment.
//
// # Backends
//
//   - diarization/pyannote: pyannote.audio HTTP sidecar
//
// # Usage
//
//	reg := provider.NewRegistry[diarization.Provider]()
//	p, err := reg.Resolve("pyannote", map[string]any{"base_url": "http://localhost:8388"})
//	resp, err := p.Diarize(ctx, diarization.Request{AudioPath: wav})
//	utterances := diarization.Fuse(transcript, resp.Segments)
package diarization

// Package transcription defines the speech-to-text provider contract and
// the time aligner that maps chunk-relative segments onto the timeline of
// the whole recording.
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//
// # Usage
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	p, err := reg.Resolve("whisper", map[string]any{"url": "http://localhost:8387"})
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: chunk.Path, Language: "ar"})
//	segments, err := transcription.Align(chunks, perChunk)
package transcription

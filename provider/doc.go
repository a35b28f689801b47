// Package provider implements a small generic provider framework for the
// swappable collaborator backends (transcription, diarization, NLP,
// embedding, generation).
//
// Every backend implements Provider. Backends register a Factory under a
// name so the concrete implementation is picked from configuration:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.Register(whisper.ProviderName, whisper.Factory())
//	p, err := reg.Resolve("whisper", map[string]any{"url": "http://localhost:8387"})
//
// Probe runs IsAvailable on a set of providers concurrently and is what the
// HTTP health endpoint reports.
package provider

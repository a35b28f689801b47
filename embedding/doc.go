// Package embedding defines the text embedding contract used by the
// retrieval index.
//
// # Backends
//
//   - embedding/ollama: Ollama /api/embed
//   - embedding/hashing: deterministic feature hashing, no model needed
package embedding

// Package server exposes the legalassist pipeline over HTTP using gin,
// served over HTTP/1.1 and h2c on one port.
//
// # Routes
//
//   - GET  /health: liveness, always {"status":"ok"}
//   - GET  /ready: collaborator probes, 503 unless every provider answers
//   - GET  /info: build identity and uptime
//   - GET  /metrics: Prometheus exposition
//   - POST /transcribe: multipart "file" upload, runs the pipeline
//   - POST /search: {"query", "top_k"} article search
//   - GET  /reports, GET /reports/:id: persisted reports
//   - GET  /events: server-sent run state changes, optionally ?run_id=<id>
//
// # Middleware
//
// The net/http stack in server/middleware wraps every route: panic
// recovery, request ids, CORS, a body size limit and request logging.
package server

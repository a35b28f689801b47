package provider

import (
	"context"
	"sync"
	"time"
)

// Status represents the health status of a provider.
type Status int

const (
	// StatusHealthy indicates the provider is fully operational.
	StatusHealthy Status = iota
	// StatusUnavailable indicates the provider cannot handle requests.
	StatusUnavailable
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// MarshalText renders the status name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HealthStatus is the probe result for a single provider.
type HealthStatus struct {
	Name    string        `json:"name"`
	Status  Status        `json:"status"`
	Latency time.Duration `json:"latency_ns"`
}

// Probe checks every provider concurrently and returns results in input
// order. Each check is bounded by timeout.
func Probe(ctx context.Context, timeout time.Duration, providers ...Provider) []HealthStatus {
	out := make([]HealthStatus, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			status := StatusUnavailable
			if p.IsAvailable(cctx) {
				status = StatusHealthy
			}
			out[i] = HealthStatus{Name: p.Name(), Status: status, Latency: time.Since(start)}
		}(i, p)
	}
	wg.Wait()
	return out
}

// AllHealthy reports whether every probe result is healthy.
func AllHealthy(results []HealthStatus) bool {
	for _, r := range results {
		if r.Status != StatusHealthy {
			return false
		}
	}
	return true
}

package observability

import "github.com/kbukum/legalassist/provider"

// Readiness is the body of the readiness probe.
type Readiness struct {
	Service   string           `json:"service"`
	Version   string           `json:"version,omitempty"`
	Ready     bool             `json:"ready"`
	Providers []ProviderHealth `json:"providers"`
	Error     string           `json:"error,omitempty"`
}

// ProviderHealth is one collaborator's probe result.
type ProviderHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
}

// NewReadiness folds probe results into a Readiness. The service is ready
// when every provider is healthy. When m is non-nil the provider gauges are
// updated too.
func NewReadiness(service, version string, probes []provider.HealthStatus, m *Metrics) Readiness {
	r := Readiness{Service: service, Version: version, Ready: true, Providers: make([]ProviderHealth, 0, len(probes))}
	for _, p := range probes {
		healthy := p.Status == provider.StatusHealthy
		r.Ready = r.Ready && healthy
		r.Providers = append(r.Providers, ProviderHealth{
			Name:      p.Name,
			Status:    p.Status.String(),
			LatencyMs: p.Latency.Milliseconds(),
		})
		if m != nil {
			m.SetProviderHealthy(p.Name, healthy)
		}
	}
	return r
}

// Fail marks the service unready because its providers could not be probed.
func (r *Readiness) Fail(err error) {
	r.Ready = false
	r.Error = err.Error()
}

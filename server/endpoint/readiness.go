package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/legalassist/observability"
	"github.com/kbukum/legalassist/provider"
	"github.com/kbukum/legalassist/version"
)

// ProbeFunc checks the pipeline collaborators. An error means they could
// not be probed at all.
type ProbeFunc func(ctx context.Context) ([]provider.HealthStatus, error)

// Readiness reports per-provider health. The service is ready only when
// every collaborator answers; otherwise it replies 503 with the details.
func Readiness(serviceName string, probe ProbeFunc, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			probes []provider.HealthStatus
			err    error
		)
		if probe != nil {
			probes, err = probe(c.Request.Context())
		}
		r := observability.NewReadiness(serviceName, version.Get().Short(), probes, metrics)
		if err != nil {
			r.Fail(err)
		}
		status := http.StatusOK
		if !r.Ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, r)
	}
}

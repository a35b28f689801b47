// Package resilience bounds how many pipeline runs execute at once.
//
// Runs are expensive (ffmpeg, several model sidecars), so the HTTP surface
// admits them through a Bulkhead and rejects the overflow instead of
// queueing it without limit:
//
//	bh := resilience.NewBulkhead("pipeline", resilience.BulkheadConfig{MaxConcurrent: 2})
//	report, err := resilience.Run(ctx, bh, func(ctx context.Context) (*Report, error) {
//	    return orch.Run(ctx, path)
//	})
package resilience

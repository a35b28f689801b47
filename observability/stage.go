package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/legalassist/errors"
)

// Stage is one timed pipeline stage: a child span plus the stage metrics.
type Stage struct {
	name    string
	start   time.Time
	ctx     context.Context
	span    trace.Span
	metrics *Metrics
}

// StartStage opens the span for stage name of run runID. m may be nil.
func StartStage(ctx context.Context, name, runID string, m *Metrics) (context.Context, *Stage) {
	ctx, span := StartSpan(ctx, SpanPipelineStage,
		attribute.String(AttrStage, name),
		attribute.String(AttrRunID, runID),
	)
	return ctx, &Stage{name: name, start: time.Now(), ctx: ctx, span: span, metrics: m}
}

// End closes the span, records the outcome and returns the stage duration.
func (s *Stage) End(err error) time.Duration {
	d := time.Since(s.start)
	RecordError(s.ctx, err)
	s.span.SetAttributes(attribute.Int64(AttrDurationMs, d.Milliseconds()))
	s.span.End()

	if s.metrics != nil {
		s.metrics.ObserveStage(s.name, err, d)
		if appErr, ok := errors.AsAppError(err); ok {
			s.metrics.RecordError(s.name, string(appErr.Code))
		}
	}
	return d
}

package observability

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/legalassist/errors"
	"github.com/kbukum/legalassist/provider"
)

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MetricsPath != "/metrics" {
		t.Errorf("expected /metrics, got %s", cfg.MetricsPath)
	}

	if cfg.SampleRate != 1.0 || cfg.Endpoint != "localhost:4318" {
		t.Errorf("unexpected tracing defaults %+v", cfg)
	}

	bad := cfg
	bad.SampleRate = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for sample_rate > 1")
	}
	bad = cfg
	bad.MetricsPath = "metrics"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for relative metrics_path")
	}
}

func TestMetrics_StagesAndRuns(t *testing.T) {
	m := NewMetrics()

	m.RunStarted()
	m.ObserveStage("transcribing", nil, 2*time.Second)
	m.ObserveStage("transcribing", fmt.Errorf("boom"), time.Second)
	m.RecordChunk(nil)
	m.RecordChunk(nil)
	m.RunFinished("Done")

	if got := testutil.ToFloat64(m.stageTotal.WithLabelValues("transcribing", StatusSuccess)); got != 1 {
		t.Errorf("expected 1 successful stage, got %v", got)
	}
	if got := testutil.ToFloat64(m.stageTotal.WithLabelValues("transcribing", StatusError)); got != 1 {
		t.Errorf("expected 1 failed stage, got %v", got)
	}
	if got := testutil.ToFloat64(m.chunksTotal.WithLabelValues(StatusSuccess)); got != 2 {
		t.Errorf("expected 2 chunks, got %v", got)
	}
	if got := testutil.ToFloat64(m.runsActive); got != 0 {
		t.Errorf("expected 0 active runs, got %v", got)
	}
	if got := testutil.ToFloat64(m.runsTotal.WithLabelValues("Done")); got != 1 {
		t.Errorf("expected 1 done run, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTP(http.MethodPost, "/search", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `legalassist_http_requests_total{code="200",method="POST",route="/search"} 1`) {
		t.Errorf("missing http counter in output:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected Go runtime collector output")
	}
}

func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return exporter
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[string]string {
	attrs := map[string]string{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	return attrs
}

func TestStage_RecordsSpanAndMetrics(t *testing.T) {
	exporter := recordSpans(t)
	m := NewMetrics()

	_, st := StartStage(context.Background(), "diarizing", "run-1", m)
	st.End(errors.CollaboratorError("diarization", fmt.Errorf("down")))

	spans := exporter.GetSpans().Snapshots()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	attrs := spanAttrs(spans[0])
	if attrs[AttrRunID] != "run-1" || attrs[AttrStage] != "diarizing" {
		t.Errorf("attributes = %v", attrs)
	}
	if attrs[AttrErrorCode] != string(errors.ErrCodeCollaborator) {
		t.Errorf("error code attribute = %q", attrs[AttrErrorCode])
	}
	if got := testutil.ToFloat64(m.errorsTotal.WithLabelValues("diarizing", string(errors.ErrCodeCollaborator))); got != 1 {
		t.Errorf("expected 1 recorded error, got %v", got)
	}
	if got := testutil.ToFloat64(m.stageTotal.WithLabelValues("diarizing", StatusError)); got != 1 {
		t.Errorf("expected 1 failed stage, got %v", got)
	}
}

func TestStage_NilMetrics(t *testing.T) {
	_, st := StartStage(context.Background(), "retrieving", "run-2", nil)
	if d := st.End(nil); d < 0 {
		t.Errorf("negative duration %v", d)
	}
}

func TestAnnotate(t *testing.T) {
	exporter := recordSpans(t)
	ctx, span := StartSpan(context.Background(), SpanHTTPRequest)
	Annotate(ctx, attribute.String(AttrRoute, "/search"))
	RecordError(ctx, fmt.Errorf("plain"))
	span.End()

	attrs := spanAttrs(exporter.GetSpans().Snapshots()[0])
	if attrs[AttrRoute] != "/search" {
		t.Errorf("attributes = %v", attrs)
	}
	if _, ok := attrs[AttrErrorCode]; ok {
		t.Error("plain errors carry no code")
	}

	// No span in context: both are no-ops.
	Annotate(context.Background(), attribute.String("k", "v"))
	RecordError(context.Background(), fmt.Errorf("x"))
}

func TestNewReadiness(t *testing.T) {
	m := NewMetrics()
	r := NewReadiness("legalassist", "dev", []provider.HealthStatus{
		{Name: "whisper", Status: provider.StatusHealthy, Latency: 3 * time.Millisecond},
		{Name: "pyannote", Status: provider.StatusUnavailable},
	}, m)

	if r.Ready {
		t.Error("an unavailable provider makes the service not ready")
	}
	if len(r.Providers) != 2 || r.Providers[0].LatencyMs != 3 || r.Providers[1].Status != "unavailable" {
		t.Errorf("providers = %+v", r.Providers)
	}
	if got := testutil.ToFloat64(m.providerHealthy.WithLabelValues("whisper")); got != 1 {
		t.Errorf("whisper gauge = %v", got)
	}
	if got := testutil.ToFloat64(m.providerHealthy.WithLabelValues("pyannote")); got != 0 {
		t.Errorf("pyannote gauge = %v", got)
	}

	if empty := NewReadiness("legalassist", "dev", nil, nil); !empty.Ready || empty.Providers == nil {
		t.Errorf("no providers should be ready with an empty list: %+v", empty)
	}

	failed := NewReadiness("legalassist", "dev", nil, nil)
	failed.Fail(fmt.Errorf("providers.llm: unknown backend"))
	if failed.Ready || failed.Error != "providers.llm: unknown backend" {
		t.Errorf("unprobed providers must not be ready: %+v", failed)
	}
}

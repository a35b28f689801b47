package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// testProvider implements the Provider interface for testing.
type testProvider struct {
	name      string
	available bool
	delay     time.Duration
}

func (p *testProvider) Name() string { return p.name }
func (p *testProvider) IsAvailable(ctx context.Context) bool {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return false
		}
	}
	return p.available
}

func newTestRegistry(calls *int) *Registry[*testProvider] {
	reg := NewRegistry[*testProvider]()
	reg.Register("whisper", func(cfg map[string]any) (*testProvider, error) {
		*calls++
		return &testProvider{name: "whisper", available: true}, nil
	})
	reg.Register("broken", func(map[string]any) (*testProvider, error) {
		return nil, errors.New("bad config")
	})
	return reg
}

func TestRegistry_ResolveCaches(t *testing.T) {
	calls := 0
	reg := newTestRegistry(&calls)

	first, err := reg.Resolve("whisper", nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, _ := reg.Resolve("whisper", map[string]any{"ignored": true})
	if first != second || calls != 1 {
		t.Errorf("expected one cached instance, factory ran %d times", calls)
	}

	// Re-registering drops the cached instance.
	reg.Register("whisper", func(map[string]any) (*testProvider, error) {
		return &testProvider{name: "whisper-2"}, nil
	})
	third, _ := reg.Resolve("whisper", nil)
	if third.Name() != "whisper-2" {
		t.Errorf("expected the new factory's instance, got %q", third.Name())
	}
}

func TestRegistry_ResolveErrors(t *testing.T) {
	calls := 0
	reg := newTestRegistry(&calls)

	_, err := reg.Resolve("missing", nil)
	if err == nil || !strings.Contains(err.Error(), "not registered") || !strings.Contains(err.Error(), "[broken whisper]") {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := reg.Resolve("broken", nil); err == nil {
		t.Error("factory errors should surface")
	}
	if _, err := reg.Resolve("broken", nil); err == nil {
		t.Error("failed builds are not cached")
	}
}

func TestRegistry_Names(t *testing.T) {
	calls := 0
	if names := newTestRegistry(&calls).Names(); len(names) != 2 || names[0] != "broken" || names[1] != "whisper" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestProbe(t *testing.T) {
	results := Probe(context.Background(), 50*time.Millisecond,
		&testProvider{name: "whisper", available: true},
		&testProvider{name: "pyannote", available: false},
		&testProvider{name: "slow", available: true, delay: time.Second},
	)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []struct {
		name   string
		status Status
	}{
		{"whisper", StatusHealthy},
		{"pyannote", StatusUnavailable},
		{"slow", StatusUnavailable},
	}
	for i, w := range want {
		if results[i].Name != w.name || results[i].Status != w.status {
			t.Errorf("result %d: expected %s/%s, got %s/%s", i, w.name, w.status, results[i].Name, results[i].Status)
		}
	}
	if AllHealthy(results) {
		t.Error("expected AllHealthy=false")
	}
	if !AllHealthy(results[:1]) {
		t.Error("expected AllHealthy=true for a healthy subset")
	}
}

func TestStatusString(t *testing.T) {
	if StatusHealthy.String() != "healthy" || StatusUnavailable.String() != "unavailable" {
		t.Error("unexpected status names")
	}
	if Status(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range status")
	}
	b, _ := StatusHealthy.MarshalText()
	if string(b) != "healthy" {
		t.Errorf("expected MarshalText=healthy, got %q", b)
	}
}
